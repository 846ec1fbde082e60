package domain

import (
	"time"

	"github.com/google/uuid"
)

// ValueEntity is the accessor set shared by every values dataset record
type ValueEntity interface {
	RecordID() *uuid.UUID
	IsDefault() bool
	OwnerEmail() string
}

// ConfidenceValue represents a confidence entry
type ConfidenceValue struct {
	ConfidenceDataID          *uuid.UUID `json:"confidenceDataId"`
	Value                     string     `json:"value"`
	ConfidenceDataCreatedDate time.Time  `json:"confidenceDataCreatedDate"`
	IsDefaultFlag             bool       `json:"isDefaultFlag"`
	CreatedBy                 string     `json:"createdBy"`
	CreatedByEmail            string     `json:"createdByEmail"`
}

func (v ConfidenceValue) RecordID() *uuid.UUID { return v.ConfidenceDataID }
func (v ConfidenceValue) IsDefault() bool      { return v.IsDefaultFlag }
func (v ConfidenceValue) OwnerEmail() string   { return v.CreatedByEmail }

// EnergyValue represents an energy entry
type EnergyValue struct {
	EnergyDataID          *uuid.UUID `json:"energyDataId"`
	Value                 string     `json:"value"`
	EnergyDataCreatedDate time.Time  `json:"energyDataCreatedDate"`
	IsDefaultFlag         bool       `json:"isDefaultFlag"`
	CreatedBy             string     `json:"createdBy"`
	CreatedByEmail        string     `json:"createdByEmail"`
}

func (v EnergyValue) RecordID() *uuid.UUID { return v.EnergyDataID }
func (v EnergyValue) IsDefault() bool      { return v.IsDefaultFlag }
func (v EnergyValue) OwnerEmail() string   { return v.CreatedByEmail }

// FocusValue represents a focus entry
type FocusValue struct {
	FocusDataID          *uuid.UUID `json:"focusDataId"`
	Value                string     `json:"value"`
	FocusDataCreatedDate time.Time  `json:"focusDataCreatedDate"`
	IsDefaultFlag        bool       `json:"isDefaultFlag"`
	CreatedBy            string     `json:"createdBy"`
	CreatedByEmail       string     `json:"createdByEmail"`
}

func (v FocusValue) RecordID() *uuid.UUID { return v.FocusDataID }
func (v FocusValue) IsDefault() bool      { return v.IsDefaultFlag }
func (v FocusValue) OwnerEmail() string   { return v.CreatedByEmail }

// SameID reports whether two optional identifiers are equal.
// Two absent identifiers are equal.
func SameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// VisibleTo reports whether a record is visible to the user with the given email
func VisibleTo(v ValueEntity, email string) bool {
	return v.IsDefault() || v.OwnerEmail() == email
}

// UUIDPtr returns a pointer to id
func UUIDPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
