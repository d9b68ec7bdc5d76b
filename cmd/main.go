package main

import (
	"os"

	"mediconnect/cmd/bootstrap"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediconnect",
		Short: "MediConnect clinic appointment service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(false)
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		logrus.Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema and indexes before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema (postgres) or indexes (mongo) and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Migrate()
		},
	}
}

func serve(migrate bool) error {
	if migrate {
		if err := bootstrap.Migrate(); err != nil {
			return err
		}
	}

	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		return err
	}

	// Run the application
	app.Run()
	return nil
}
