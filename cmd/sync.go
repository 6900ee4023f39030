package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync:run",
	Short: "Run one reference feed sync check and exit",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newContainer()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		if err := c.Engine.CheckAndSync(context.Background()); err != nil {
			fmt.Printf("Sync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Sync check completed.")
	},
}

var comprehensiveSyncCmd = &cobra.Command{
	Use:   "sync:comprehensive",
	Short: "Re-pull all reference feeds over the full history window",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newContainer()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		if err := c.Engine.ComprehensiveSync(context.Background()); err != nil {
			fmt.Printf("Comprehensive sync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Comprehensive sync completed.")
	},
}

var pullImportsCmd = &cobra.Command{
	Use:   "sync:imports",
	Short: "Pull the import-items feed up to today",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newContainer()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		n, err := c.Engine.PullImports(context.Background())
		if err != nil {
			fmt.Printf("Imports pull failed after %d rows: %v\n", n, err)
			os.Exit(1)
		}
		fmt.Printf("Fetched %d import records.\n", n)
	},
}

var pullPurchasesCmd = &cobra.Command{
	Use:   "sync:purchases",
	Short: "Pull the purchases feed up to today",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newContainer()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		n, err := c.Engine.PullPurchases(context.Background())
		if err != nil {
			fmt.Printf("Purchases pull failed after %d rows: %v\n", n, err)
			os.Exit(1)
		}
		fmt.Printf("Fetched %d purchase records.\n", n)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, comprehensiveSyncCmd, pullImportsCmd, pullPurchasesCmd)
}
