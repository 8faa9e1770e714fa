package main

import (
	"errors"

	"github.com/phrazzld/blogrelay/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|reset|status|version]",
	Short:     "Run artifact index schema migrations",
	Long:      "Applies the embedded blog_artifacts migrations to database.url. Defaults to up.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: postgres.MigrationCommands,
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := "up"
	if len(args) == 1 {
		command = args[0]
	}

	cfg, log, err := loadConfigAndLogger(configPath)
	if err != nil {
		return err
	}
	if !cfg.Database.IndexEnabled() {
		return errors.New("database.url is not configured")
	}

	ctx := commandContext(cmd)
	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database connection", "error", cerr)
		}
	}()

	return postgres.Migrate(ctx, db.DB, command, log)
}
