package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  = zap.NewNop()
)

func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		logger.Sugar().With("error", err).Error("command failed")
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "casedocs",
		Short:        "Case document lookup service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfgFile); err != nil {
				return err
			}

			var err error
			logger, err = newLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// Sync fails on stderr for some platforms, nothing useful to do about it.
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")

	root.AddCommand(serveCmd(), migrateCmd(), lookupCmd(), importCmd())
	return root
}

// loadConfig reads an optional .env file, then the YAML config. Environment
// variables override config keys with dots replaced by underscores, e.g.
// CASEDOCS_DB_DSN for db.dsn.
func loadConfig(path string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	setDefaults()

	viper.SetEnvPrefix("casedocs")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if viper.GetBool("log.development") {
		cfg = zap.NewDevelopmentConfig()
	}

	if level := viper.GetString("log.level"); level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = parsed
	}

	return cfg.Build()
}
