package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fakturi-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fakturi-api/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		Long: `Aplica en orden los scripts embebidos que aún no constan en schema_migrations.

Usa la misma configuración que la API (DATABASE_URL o DB_HOST, DB_PORT, ...).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := cliLogger().WithComponent("migrate")
			pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.Migrate(cmd.Context(), pool)
			for _, name := range applied {
				log.Info().Str("migration", name).Msg("migración aplicada")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", len(applied))
			return nil
		},
	}
}
