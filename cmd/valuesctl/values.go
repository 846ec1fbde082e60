package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/id"
	"github.com/reflectionapp/reflection/api/internal/service"
)

// datasetNames lists the dataset arguments accepted by the lookup commands
var datasetNames = []string{"confidence", "energy", "focus"}

// reader erases the record type so one command serves every dataset
type reader interface {
	forUser(ctx context.Context, email string) (any, error)
	byID(ctx context.Context, recordID *uuid.UUID) (any, error)
	byIDs(ctx context.Context, ids []*uuid.UUID) (any, error)
	one(ctx context.Context, recordID *uuid.UUID) (any, error)
}

type datasetReader[T domain.ValueEntity] struct {
	svc *service.ValuesService[T]
}

func (r datasetReader[T]) forUser(ctx context.Context, email string) (any, error) {
	return r.svc.GetAllForUser(ctx, email)
}

func (r datasetReader[T]) byID(ctx context.Context, recordID *uuid.UUID) (any, error) {
	return r.svc.GetByID(ctx, recordID)
}

func (r datasetReader[T]) byIDs(ctx context.Context, ids []*uuid.UUID) (any, error) {
	return r.svc.GetAllByIDs(ctx, ids)
}

func (r datasetReader[T]) one(ctx context.Context, recordID *uuid.UUID) (any, error) {
	return r.svc.GetOne(ctx, recordID)
}

func (c *cli) readerFor(ctx context.Context, dataset string) (reader, error) {
	values, err := c.services(ctx)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(dataset) {
	case "confidence":
		return datasetReader[domain.ConfidenceValue]{svc: values.Confidence}, nil
	case "energy":
		return datasetReader[domain.EnergyValue]{svc: values.Energy}, nil
	case "focus":
		return datasetReader[domain.FocusValue]{svc: values.Focus}, nil
	}
	return nil, fmt.Errorf("unknown dataset %q (want one of %s)", dataset, strings.Join(datasetNames, ", "))
}

func completeDataset(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return datasetNames, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func newTablesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the partition key registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.print(cmd.OutOrStdout(), domain.Tables())
		},
	}
}

func newForUserCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "for-user <dataset> <email>",
		Short:             "Default records plus the records created by email",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.readerFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			records, err := r.forUser(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), records)
		},
	}
}

func newByIDCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "by-id <dataset> [id]",
		Short: "Default records plus the records with id",
		Long: `Default records plus the records with id.

Without an id, or with "null", records without an id are matched.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			recordID, err := id.ParseOptional(raw)
			if err != nil {
				return err
			}

			r, err := c.readerFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			records, err := r.byID(cmd.Context(), recordID)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), records)
		},
	}
}

func newByIDsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "by-ids <dataset> <id|null>...",
		Short:             "Records whose id is listed (defaults are not added)",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := id.ParseOptionalList(args[1:])
			if err != nil {
				return err
			}

			r, err := c.readerFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			records, err := r.byIDs(cmd.Context(), ids)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), records)
		},
	}
}

func newOneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "one <dataset> <id|null>",
		Short:             "First record in row key order with id",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			recordID, err := id.ParseOptional(args[1])
			if err != nil {
				return err
			}

			r, err := c.readerFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			record, err := r.one(cmd.Context(), recordID)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), record)
		},
	}
}
