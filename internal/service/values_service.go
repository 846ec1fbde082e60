package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/domain"
	apperrors "github.com/reflectionapp/reflection/api/internal/pkg/errors"
	"github.com/reflectionapp/reflection/api/internal/telemetry"
)

// PartitionScanner reads every row of one table partition
type PartitionScanner interface {
	ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error)
}

// Dataset describes one values dataset: its table and the telemetry event
// names emitted by each operation.
type Dataset struct {
	Name  string
	Table domain.Table

	EventForUser string
	EventByID    string
	EventByIDs   string
	EventOne     string
}

// NewDataset builds a Dataset for a dataset prefix such as "Confidence".
// The table must be registered under prefix + "Data".
func NewDataset(prefix string) Dataset {
	name := prefix + "Data"
	table, ok := domain.LookupTable(name)
	if !ok {
		panic(fmt.Sprintf("service: table %s is not registered", name))
	}
	return Dataset{
		Name:         name,
		Table:        table,
		EventForUser: "GetAll" + name + "ForUser",
		EventByID:    "Get" + name + "By" + name + "ID",
		EventByIDs:   "GetAll" + name,
		EventOne:     "Get" + name,
	}
}

// ValuesService serves the filtered lookups of one values dataset.
// Every call scans the dataset's partition once and filters in memory.
type ValuesService[T domain.ValueEntity] struct {
	dataset   Dataset
	scanner   PartitionScanner
	telemetry telemetry.Client
	logger    *zap.Logger
}

// NewValuesService creates a values service
func NewValuesService[T domain.ValueEntity](
	dataset Dataset,
	scanner PartitionScanner,
	tc telemetry.Client,
	logger *zap.Logger,
) *ValuesService[T] {
	return &ValuesService[T]{
		dataset:   dataset,
		scanner:   scanner,
		telemetry: tc,
		logger:    logger,
	}
}

// Dataset returns the dataset served
func (s *ValuesService[T]) Dataset() Dataset {
	return s.dataset
}

// GetAllForUser returns the default records and the records created by email
func (s *ValuesService[T]) GetAllForUser(ctx context.Context, email string) ([]T, error) {
	return s.filter(ctx, s.dataset.EventForUser, func(v T) bool {
		return domain.VisibleTo(v, email)
	})
}

// GetByID returns the default records and the records with the given id
func (s *ValuesService[T]) GetByID(ctx context.Context, id *uuid.UUID) ([]T, error) {
	return s.filter(ctx, s.dataset.EventByID, func(v T) bool {
		return v.IsDefault() || domain.SameID(v.RecordID(), id)
	})
}

// GetAllByIDs returns the records whose id is in ids. Defaults are not
// included unless their id is listed.
func (s *ValuesService[T]) GetAllByIDs(ctx context.Context, ids []*uuid.UUID) ([]T, error) {
	return s.filter(ctx, s.dataset.EventByIDs, func(v T) bool {
		for _, id := range ids {
			if domain.SameID(v.RecordID(), id) {
				return true
			}
		}
		return false
	})
}

// GetOne returns the first record in scan order with the given id
func (s *ValuesService[T]) GetOne(ctx context.Context, id *uuid.UUID) (*T, error) {
	var (
		found T
		ok    bool
	)
	_, err := s.run(ctx, s.dataset.EventOne, func(v T) (bool, bool) {
		if domain.SameID(v.RecordID(), id) {
			found, ok = v, true
			return true, true
		}
		return false, false
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound(s.dataset.Name + " record")
	}
	return &found, nil
}

func (s *ValuesService[T]) filter(ctx context.Context, event string, keep func(T) bool) ([]T, error) {
	return s.run(ctx, event, func(v T) (bool, bool) {
		return keep(v), false
	})
}

// run scans the partition and visits each decoded record in row key order.
// visit reports whether to keep the record and whether to stop.
func (s *ValuesService[T]) run(ctx context.Context, event string, visit func(T) (keep, stop bool)) (result []T, err error) {
	s.telemetry.TrackEvent(ctx, event)

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, s.fail(ctx, event, fmt.Errorf("panic: %v", r))
		}
	}()

	entities, err := s.scanner.ScanPartition(ctx, s.dataset.Table)
	if err != nil {
		return nil, s.fail(ctx, event, err)
	}

	result = make([]T, 0)
	for _, entity := range entities {
		var v T
		if err := json.Unmarshal(entity.Properties, &v); err != nil {
			return nil, s.fail(ctx, event, fmt.Errorf("failed to decode row %s: %w", entity.RowKey, err))
		}
		keep, stop := visit(v)
		if keep {
			result = append(result, v)
		}
		if stop {
			break
		}
	}
	return result, nil
}

func (s *ValuesService[T]) fail(ctx context.Context, event string, cause error) error {
	s.telemetry.TrackException(ctx, cause)
	s.logger.Warn("values lookup failed",
		zap.String("operation", event),
		zap.String("table", s.dataset.Table.Name),
		zap.Error(cause),
	)
	return apperrors.StoreUnavailable(s.dataset.Name + " is unavailable").WithError(cause)
}

// ValuesServices bundles one service per values dataset
type ValuesServices struct {
	Confidence *ValuesService[domain.ConfidenceValue]
	Energy     *ValuesService[domain.EnergyValue]
	Focus      *ValuesService[domain.FocusValue]
}

// NewValuesServices creates the confidence, energy and focus services on one scanner
func NewValuesServices(scanner PartitionScanner, tc telemetry.Client, logger *zap.Logger) *ValuesServices {
	return &ValuesServices{
		Confidence: NewValuesService[domain.ConfidenceValue](NewDataset("Confidence"), scanner, tc, logger),
		Energy:     NewValuesService[domain.EnergyValue](NewDataset("Energy"), scanner, tc, logger),
		Focus:      NewValuesService[domain.FocusValue](NewDataset("Focus"), scanner, tc, logger),
	}
}
