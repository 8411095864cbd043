package handler

import (
	"rinkside/internal/org/models"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	"rinkside/pkg/money"
)

type createAssociationRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	ParentID string `json:"parent_id,omitempty"`
}

type createClubRequest struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	AssociationID string `json:"association_id"`
}

type feeRequest struct {
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Scope         string       `json:"scope"`
	Amount        money.Amount `json:"amount"`
	ValidFrom     string       `json:"valid_from,omitempty"`
	ValidTo       string       `json:"valid_to,omitempty"`
	Active        bool         `json:"active"`
	SupersedesKey string       `json:"supersedes_key,omitempty"`
}

type setFeesRequest struct {
	Fees []feeRequest `json:"fees"`
}

func (r *feeRequest) toModel() (models.Fee, error) {
	fee := models.Fee{
		ID:            id.NewFeeID(),
		Name:          r.Name,
		Category:      r.Category,
		Scope:         models.FeeScope(r.Scope),
		Amount:        r.Amount,
		Active:        r.Active,
		SupersedesKey: r.SupersedesKey,
	}
	if r.ValidFrom != "" {
		from, err := dates.Parse(r.ValidFrom)
		if err != nil {
			return models.Fee{}, err
		}
		fee.Validity.From = from
	}
	if r.ValidTo != "" {
		to, err := dates.Parse(r.ValidTo)
		if err != nil {
			return models.Fee{}, err
		}
		fee.Validity.To = to
	}
	return fee, nil
}
