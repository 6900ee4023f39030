package cmd

import (
	"github.com/spf13/cobra"

	"vsdc.GO/api"
	"vsdc.GO/config"
	"vsdc.GO/core/vsdc"
)

var rootCmd = &cobra.Command{
	Use:   "vsdc",
	Short: "VSDC bridge command line",
}

// Execute applies registered commands and runs the CLI.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln(err)
	}
}

// newContainer builds the service graph the way the server does, for
// commands that need it.
func newContainer() (*api.Container, error) {
	config.LoadAppConfig()
	db, err := config.NewDB()
	if err != nil {
		return nil, err
	}
	client := vsdc.NewClient(config.GetApp().BaseURL)
	return api.NewContainer(db, client), nil
}
