package main

import (
	"github.com/spf13/cobra"

	"github.com/reflectionapp/reflection/api/internal/seed"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Write the records of a seed file to the store",
		Long: `Write the records of a seed file to the store.

The file has confidence, energy and focus lists. Each record takes id, value,
createdDate, isDefault, createdBy and createdByEmail. A record with id "null"
or no id is stored without an identifier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}

			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}

			result, err := seed.Apply(cmd.Context(), store, file, c.logger)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), map[string]any{
				"tables": result,
				"total":  result.Total(),
			})
		},
	}
}
