// Package eligibility decides whether a candidate's age fits a division.
package eligibility

import (
	"fmt"
	"strings"

	orgModels "rinkside/internal/org/models"
	"rinkside/internal/registration/models"
	"rinkside/pkg/dates"
	dErrors "rinkside/pkg/domain-errors"
)

// Checker evaluates age bands. The division catalog is fixed at
// construction; associations running custom bands pass their own.
type Checker struct {
	divisions map[string]orgModels.Division
}

func New(divisions []orgModels.Division) *Checker {
	byCode := make(map[string]orgModels.Division, len(divisions))
	for _, d := range divisions {
		byCode[strings.ToUpper(d.Code)] = d
	}
	return &Checker{divisions: byCode}
}

// Check computes the candidate's age for the season and tests it against the
// division band, inclusive on both ends. Age is season year minus birth
// year, the sporting-season convention, not calendar age.
//
// An unknown division code is a validation error; an out-of-band age is a
// normal ineligible verdict.
func (c *Checker) Check(dob dates.Date, season int, divisionCode string) (models.Verdict, error) {
	division, ok := c.divisions[strings.ToUpper(divisionCode)]
	if !ok {
		return models.Verdict{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown division %q", divisionCode))
	}

	age := dates.AgeAtSeason(dob, season)
	verdict := models.Verdict{
		ComputedAge:  age,
		DivisionCode: division.Code,
		AllowedMin:   division.MinAge,
		AllowedMax:   division.MaxAge,
	}

	switch {
	case age < division.MinAge:
		verdict.Reason = fmt.Sprintf("age %d is below the %s minimum of %d", age, division.Code, division.MinAge)
	case age > division.MaxAge:
		verdict.Reason = fmt.Sprintf("age %d is above the %s maximum of %d", age, division.Code, division.MaxAge)
	default:
		verdict.Eligible = true
	}
	return verdict, nil
}
