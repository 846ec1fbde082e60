package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Null is the textual form of an absent identifier
const Null = "null"

// ParseOptional parses an optional record identifier.
// Empty input and "null" yield nil.
func ParseOptional(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, Null) {
		return nil, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", s, err)
	}
	return &u, nil
}

// ParseOptionalList parses every element with ParseOptional
func ParseOptionalList(values []string) ([]*uuid.UUID, error) {
	ids := make([]*uuid.UUID, 0, len(values))
	for _, v := range values {
		u, err := ParseOptional(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, u)
	}
	return ids, nil
}

// FormatOptional renders an optional identifier, using Null when absent
func FormatOptional(u *uuid.UUID) string {
	if u == nil {
		return Null
	}
	return u.String()
}

// RowKey returns the store row key for a record identifier
func RowKey(u *uuid.UUID) string {
	if u == nil {
		return uuid.NewString()
	}
	return u.String()
}
