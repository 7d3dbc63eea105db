package main

import (
	"fmt"
	"os"

	"CompanyAPI/internal/config"
	"CompanyAPI/internal/logger"

	"github.com/spf13/cobra"
)

var (
	debug bool
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "companyapi",
	Short:         "REST API for companies and their employees",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init("."); err != nil {
			return fmt.Errorf("log init failed: %w", err)
		}
		logger.SetDebug(debug)
		cfg = config.LoadConfig()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
