// Package seed loads values records from a YAML file into a table store.
//
// A seed file lists records per dataset:
//
//	confidence:
//	  - id: 3f1c2d4e-0000-4000-8000-000000000001
//	    value: Steady
//	    isDefault: true
//	    createdBy: System
//	energy: []
//	focus:
//	  - value: Sharp
//	    createdByEmail: someone@example.com
//
// A record's id is its row key. Records without an id are stored under a
// generated row key. When several records of one dataset share an id, the
// first keeps the id as row key and the n-th repeat is stored under
// "{id}.{n}". Every record is written and the first one scans first.
// Writes are upserts keyed by row key, so loading the same file twice is
// idempotent for records that carry an id.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/id"
)

// Putter writes table rows
type Putter interface {
	PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error
}

// Record is one seeded values record
type Record struct {
	ID             string    `yaml:"id"`
	Value          string    `yaml:"value"`
	CreatedDate    time.Time `yaml:"createdDate"`
	IsDefault      bool      `yaml:"isDefault"`
	CreatedBy      string    `yaml:"createdBy"`
	CreatedByEmail string    `yaml:"createdByEmail"`
}

// File is a parsed seed file
type File struct {
	Confidence []Record `yaml:"confidence"`
	Energy     []Record `yaml:"energy"`
	Focus      []Record `yaml:"focus"`
}

// Row is a record encoded for its table
type Row struct {
	Table  domain.Table
	Entity domain.TableEntity
}

// Result counts the rows written per table name
type Result map[string]int

// Total returns the number of rows written
func (r Result) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

// LoadFile reads and parses a seed file
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse parses a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &file, nil
}

// Rows encodes every record of the file. now stamps records without a
// created date.
func (f *File) Rows(now time.Time) ([]Row, error) {
	var rows []Row

	add := func(table domain.Table, records []Record, build func(Record, *uuid.UUID) any) error {
		seen := make(map[string]int)
		for i, rec := range records {
			recordID, err := id.ParseOptional(rec.ID)
			if err != nil {
				return fmt.Errorf("%s record %d: %w", table.Name, i, err)
			}
			if rec.CreatedDate.IsZero() {
				rec.CreatedDate = now
			}

			props, err := json.Marshal(build(rec, recordID))
			if err != nil {
				return fmt.Errorf("%s record %d: %w", table.Name, i, err)
			}

			rowKey := id.RowKey(recordID)
			if recordID != nil {
				if n := seen[rowKey]; n > 0 {
					seen[rowKey]++
					rowKey = fmt.Sprintf("%s.%d", rowKey, n)
				} else {
					seen[rowKey] = 1
				}
			}

			rows = append(rows, Row{
				Table: table,
				Entity: domain.TableEntity{
					PartitionKey: table.PartitionKey,
					RowKey:       rowKey,
					Timestamp:    rec.CreatedDate,
					Properties:   props,
				},
			})
		}
		return nil
	}

	if err := add(domain.ConfidenceDataTable, f.Confidence, func(r Record, u *uuid.UUID) any {
		return domain.ConfidenceValue{
			ConfidenceDataID:          u,
			Value:                     r.Value,
			ConfidenceDataCreatedDate: r.CreatedDate,
			IsDefaultFlag:             r.IsDefault,
			CreatedBy:                 r.CreatedBy,
			CreatedByEmail:            r.CreatedByEmail,
		}
	}); err != nil {
		return nil, err
	}

	if err := add(domain.EnergyDataTable, f.Energy, func(r Record, u *uuid.UUID) any {
		return domain.EnergyValue{
			EnergyDataID:          u,
			Value:                 r.Value,
			EnergyDataCreatedDate: r.CreatedDate,
			IsDefaultFlag:         r.IsDefault,
			CreatedBy:             r.CreatedBy,
			CreatedByEmail:        r.CreatedByEmail,
		}
	}); err != nil {
		return nil, err
	}

	if err := add(domain.FocusDataTable, f.Focus, func(r Record, u *uuid.UUID) any {
		return domain.FocusValue{
			FocusDataID:          u,
			Value:                r.Value,
			FocusDataCreatedDate: r.CreatedDate,
			IsDefaultFlag:        r.IsDefault,
			CreatedBy:            r.CreatedBy,
			CreatedByEmail:       r.CreatedByEmail,
		}
	}); err != nil {
		return nil, err
	}

	return rows, nil
}

// Apply writes every row of the file to store. It stops at the first failed write.
func Apply(ctx context.Context, store Putter, f *File, logger *zap.Logger) (Result, error) {
	rows, err := f.Rows(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	result := make(Result)
	for _, row := range rows {
		if err := store.PutEntity(ctx, row.Table, row.Entity); err != nil {
			return result, fmt.Errorf("failed to seed %s row %s: %w", row.Table.Name, row.Entity.RowKey, err)
		}
		result[row.Table.Name]++
	}

	logger.Info("seed applied",
		zap.Int("rows", result.Total()),
		zap.Int(domain.ConfidenceDataName, result[domain.ConfidenceDataName]),
		zap.Int(domain.EnergyDataName, result[domain.EnergyDataName]),
		zap.Int(domain.FocusDataName, result[domain.FocusDataName]),
	)
	return result, nil
}
