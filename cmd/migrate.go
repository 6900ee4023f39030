package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	// The sqlite3 (mattn) driver registers under "sqlite3", so it can sit
	// in the same binary as the glebarez GORM driver, which owns "sqlite".
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"vsdc.GO/config"
)

var migrateDown bool

// migrationURL builds the golang-migrate database URL from the same env the
// GORM connection uses.
func migrationURL() string {
	if config.GetEnv("DB_DRIVER", "sqlite") == "mysql" {
		return "mysql://" + config.GetEnv("MYSQL_DSN", "")
	}
	return "sqlite3://" + config.GetEnv("SQLITE_PATH", "data/vsdc.sqlite")
}

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply schema migrations from the migrations directory",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := migrate.New("file://migrations", migrationURL())
		if err != nil {
			fmt.Printf("Migration setup failed: %v\n", err)
			os.Exit(1)
		}
		defer m.Close()

		if migrateDown {
			err = m.Down()
		} else {
			err = m.Up()
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("Schema already up to date.")
			return
		}
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied.")
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations instead of applying them")
	rootCmd.AddCommand(migrateCmd)
}
