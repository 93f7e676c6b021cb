package commands

import (
	"github.com/spf13/cobra"

	"github.com/RichardKnop/casedocs/db"
)

func migrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, dialect, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if reset {
				logger.Sugar().With("dialect", dialect).Warn("resetting database schema")
				return db.Reset(sqlDB, dialect)
			}

			if err := db.Migrate(sqlDB, dialect); err != nil {
				return err
			}
			logger.Sugar().With("dialect", dialect).Info("migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "migrate down and up again, dropping all data")

	return cmd
}
