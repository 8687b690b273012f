// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"github.com/spf13/cobra"

	"termbase/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate and load the default category taxonomy",
	Long:  `Seed applies pending migrations, inserts the default categories and clears the shared category cache. Existing categories are left untouched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := openMigrated(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Seed(db); err != nil {
			return err
		}

		categories, closeCache := openCategoryCache(cmd.Context(), cfg, db)
		defer closeCache()
		categories.InvalidateAll(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
