package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowboard/core/cmd/api/commands"
)

// @title FlowBoard API
// @version 1.0
// @description Kanban workflow board with a staged review pipeline

// @contact.name FlowBoard Support
// @contact.url https://github.com/flowboard/core

// @license.name MIT
// @license.url https://github.com/flowboard/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "flowboard",
		Short: "FlowBoard API Server",
		Long:  `FlowBoard is a project workflow system: a kanban board backed by a fixed seven-stage delivery pipeline with admin-gated stage approval.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
