package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/id"
)

// Putter writes table rows
type Putter interface {
	PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error
}

// NewTestConfidence creates a confidence record with default values.
// A nil id leaves the record without an identifier.
func NewTestConfidence(recordID *uuid.UUID, value, email string, isDefault bool) domain.ConfidenceValue {
	return domain.ConfidenceValue{
		ConfidenceDataID:          recordID,
		Value:                     value,
		ConfidenceDataCreatedDate: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		IsDefaultFlag:             isDefault,
		CreatedBy:                 "Test User",
		CreatedByEmail:            email,
	}
}

// NewTestEnergy creates an energy record with default values.
func NewTestEnergy(recordID *uuid.UUID, value, email string, isDefault bool) domain.EnergyValue {
	return domain.EnergyValue{
		EnergyDataID:          recordID,
		Value:                 value,
		EnergyDataCreatedDate: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		IsDefaultFlag:         isDefault,
		CreatedBy:             "Test User",
		CreatedByEmail:        email,
	}
}

// NewTestFocus creates a focus record with default values.
func NewTestFocus(recordID *uuid.UUID, value, email string, isDefault bool) domain.FocusValue {
	return domain.FocusValue{
		FocusDataID:          recordID,
		Value:                value,
		FocusDataCreatedDate: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		IsDefaultFlag:        isDefault,
		CreatedBy:            "Test User",
		CreatedByEmail:       email,
	}
}

// Entity encodes a record as a table row keyed by rowKey
func Entity(t testing.TB, table domain.Table, rowKey string, record any) domain.TableEntity {
	t.Helper()
	props, err := json.Marshal(record)
	require.NoError(t, err)
	return domain.TableEntity{
		PartitionKey: table.PartitionKey,
		RowKey:       rowKey,
		Timestamp:    time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		Properties:   props,
	}
}

// Seed writes records to the table, keyed by their id
func Seed[T domain.ValueEntity](t testing.TB, store Putter, table domain.Table, records ...T) {
	t.Helper()
	for _, r := range records {
		require.NoError(t, store.PutEntity(context.Background(), table, Entity(t, table, id.RowKey(r.RecordID()), r)))
	}
}

// Scenario holds the two-record dataset used across service and handler tests:
// A is a default record created by u1, B is a private record created by u2.
type Scenario struct {
	A, B    uuid.UUID
	Missing uuid.UUID
}

// Scenario emails
const (
	EmailU1 = "u1@example.com"
	EmailU2 = "u2@example.com"
	EmailU3 = "u3@example.com"
)

// NewScenario creates a scenario whose record A sorts before B by row key
func NewScenario() Scenario {
	return Scenario{
		A:       uuid.MustParse("0a000000-0000-4000-8000-000000000001"),
		B:       uuid.MustParse("0b000000-0000-4000-8000-000000000002"),
		Missing: uuid.MustParse("0f000000-0000-4000-8000-00000000000f"),
	}
}

// SeedConfidence writes the scenario to the confidence table
func (s Scenario) SeedConfidence(t testing.TB, store Putter) {
	t.Helper()
	Seed(t, store, domain.ConfidenceDataTable,
		NewTestConfidence(domain.UUIDPtr(s.A), "Steady", EmailU1, true),
		NewTestConfidence(domain.UUIDPtr(s.B), "Shaky", EmailU2, false),
	)
}

// SeedEnergy writes the scenario to the energy table
func (s Scenario) SeedEnergy(t testing.TB, store Putter) {
	t.Helper()
	Seed(t, store, domain.EnergyDataTable,
		NewTestEnergy(domain.UUIDPtr(s.A), "Rested", EmailU1, true),
		NewTestEnergy(domain.UUIDPtr(s.B), "Drained", EmailU2, false),
	)
}

// SeedFocus writes the scenario to the focus table
func (s Scenario) SeedFocus(t testing.TB, store Putter) {
	t.Helper()
	Seed(t, store, domain.FocusDataTable,
		NewTestFocus(domain.UUIDPtr(s.A), "Sharp", EmailU1, true),
		NewTestFocus(domain.UUIDPtr(s.B), "Scattered", EmailU2, false),
	)
}
