// fakturictl herramientas de operación: migraciones y cálculo de totales sin levantar la API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fakturi-api/pkg/config"
	"github.com/jhoicas/fakturi-api/pkg/logger"
)

var version = "1.0.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fakturictl",
		Short:         "Herramientas de línea de comandos de fakturi",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newTotalsCmd())
	return root
}

func cliLogger() *logger.Logger {
	cfg, err := config.Load()
	if err != nil {
		return logger.New(logger.Config{Env: "development", Level: "info"})
	}
	return logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cliLogger().WithComponent("cmd").Error().Err(err).Msg("comando fallido")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
