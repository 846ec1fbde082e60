// Package domain contains the core entities and types for the Reflection
// values data service.
//
// This package defines:
//   - The partition key registry (Table, LookupTable, Tables)
//   - The store-level row shape (TableEntity)
//   - The per-dataset value records (ConfidenceValue, EnergyValue, FocusValue)
//   - The ValueEntity accessor interface shared by every value record
//
// # Design Philosophy
//
// Domain types are persistence-agnostic. A store only ever sees TableEntity
// rows; decoding a row's properties into a value record is the single point
// where a dataset and a store meet.
//
// # Visibility
//
// A value record is visible to a user when it is a default record or when the
// user created it. See VisibleTo.
package domain
