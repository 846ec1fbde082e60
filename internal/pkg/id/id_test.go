package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptional(t *testing.T) {
	want := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")

	tests := []struct {
		name    string
		input   string
		want    *uuid.UUID
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"null", "null", nil, false},
		{"null upper", "NULL", nil, false},
		{"valid", want.String(), &want, false},
		{"padded", "  " + want.String() + " ", &want, false},
		{"invalid", "not-a-uuid", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptional(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptionalList(t *testing.T) {
	a := uuid.New()
	ids, err := ParseOptionalList([]string{a.String(), "null"})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, a, *ids[0])
	assert.Nil(t, ids[1])

	_, err = ParseOptionalList([]string{"bogus"})
	assert.Error(t, err)
}

func TestFormatOptional(t *testing.T) {
	a := uuid.New()
	assert.Equal(t, "null", FormatOptional(nil))
	assert.Equal(t, a.String(), FormatOptional(&a))
}

func TestRowKey(t *testing.T) {
	a := uuid.New()
	assert.Equal(t, a.String(), RowKey(&a))
	_, err := uuid.Parse(RowKey(nil))
	assert.NoError(t, err)
	assert.NotEqual(t, RowKey(nil), RowKey(nil))
}
