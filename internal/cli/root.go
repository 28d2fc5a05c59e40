package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "userdash",
		Short: "User registration and dashboard web server",
		Long: `userdash serves a small account management web application.

It provides registration, login, a session-gated dashboard, and logout,
backed by a SQLite user store and a pluggable session store.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
