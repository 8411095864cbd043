// Package domain defines typed identifiers shared across the service.
//
// Each ID is a distinct type over uuid.UUID so that an AssociationID can
// never be passed where a ClubID is expected. Parsing helpers return the
// zero value alongside an error for malformed input.
package domain

import "github.com/google/uuid"

type AssociationID uuid.UUID

type ClubID uuid.UUID

type FeeID uuid.UUID

type MemberID uuid.UUID

type RegistrationID uuid.UUID

type PaymentID uuid.UUID

func (id AssociationID) String() string  { return uuid.UUID(id).String() }
func (id ClubID) String() string         { return uuid.UUID(id).String() }
func (id FeeID) String() string          { return uuid.UUID(id).String() }
func (id MemberID) String() string       { return uuid.UUID(id).String() }
func (id RegistrationID) String() string { return uuid.UUID(id).String() }
func (id PaymentID) String() string      { return uuid.UUID(id).String() }

func (id AssociationID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ClubID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id FeeID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id MemberID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id RegistrationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

func NewAssociationID() AssociationID   { return AssociationID(uuid.New()) }
func NewClubID() ClubID                 { return ClubID(uuid.New()) }
func NewFeeID() FeeID                   { return FeeID(uuid.New()) }
func NewMemberID() MemberID             { return MemberID(uuid.New()) }
func NewRegistrationID() RegistrationID { return RegistrationID(uuid.New()) }
func NewPaymentID() PaymentID           { return PaymentID(uuid.New()) }

func ParseAssociationID(s string) (AssociationID, error) {
	u, err := uuid.Parse(s)
	return AssociationID(u), err
}

func ParseClubID(s string) (ClubID, error) {
	u, err := uuid.Parse(s)
	return ClubID(u), err
}

func ParseFeeID(s string) (FeeID, error) {
	u, err := uuid.Parse(s)
	return FeeID(u), err
}

func ParseMemberID(s string) (MemberID, error) {
	u, err := uuid.Parse(s)
	return MemberID(u), err
}

func ParseRegistrationID(s string) (RegistrationID, error) {
	u, err := uuid.Parse(s)
	return RegistrationID(u), err
}

func ParsePaymentID(s string) (PaymentID, error) {
	u, err := uuid.Parse(s)
	return PaymentID(u), err
}

// MarshalText makes typed IDs render as canonical UUID strings in JSON.
func (id AssociationID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ClubID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id FeeID) MarshalText() ([]byte, error)          { return []byte(id.String()), nil }
func (id MemberID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id RegistrationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id PaymentID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *AssociationID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = AssociationID(u)
	return nil
}

func (id *ClubID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ClubID(u)
	return nil
}

func (id *FeeID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = FeeID(u)
	return nil
}

func (id *MemberID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = MemberID(u)
	return nil
}

func (id *RegistrationID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = RegistrationID(u)
	return nil
}

func (id *PaymentID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = PaymentID(u)
	return nil
}
