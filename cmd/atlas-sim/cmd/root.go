package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/atlas-go/config"
	"github.com/krazyTry/atlas-go/logger"
	"github.com/krazyTry/atlas-go/runtime"
)

type simulator struct {
	configPath string
	logLevel   string
	dbPath     string

	cfg   *config.Config
	log   *zap.Logger
	store *runtime.LevelStore
	bank  *runtime.Bank
	out   io.Writer
}

func NewRootCmd() *cobra.Command {
	s := &simulator{out: os.Stdout}
	cmd := &cobra.Command{
		Use:   "atlas-sim",
		Short: "Atlas swap program simulator",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.out = cmd.OutOrStdout()
			return s.init()
		},
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&s.configPath, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "log level, overrides the config")
	cmd.PersistentFlags().StringVar(&s.dbPath, "db", "", "account database directory, overrides the config")

	cmd.AddCommand(
		newSeedCmd(s),
		newConfigureCmd(s),
		newCreatePoolCmd(s),
		newSwapCmd(s),
		newDepositCmd(s),
		newWithdrawCmd(s),
		newShowCmd(s),
	)
	return cmd
}

func (s *simulator) init() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}
	if s.dbPath != "" {
		cfg.DBPath = s.dbPath
	}
	s.cfg = cfg

	if s.log, err = logger.New(cfg.Log); err != nil {
		return err
	}
	if s.store, err = runtime.OpenLevelStore(cfg.DBPath); err != nil {
		return err
	}
	s.bank = runtime.NewBank(s.store, cfg.ProgramKey(),
		runtime.WithConstraints(cfg.Constraints()),
		runtime.WithLogger(s.log.Named("bank")),
	)
	s.log.Debug("simulator ready", zap.String("db", cfg.DBPath), zap.Stringer("program", cfg.ProgramKey()))
	return nil
}

func (s *simulator) close() error {
	if s.log != nil {
		_ = s.log.Sync()
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close account db: %w", err)
	}
	s.store = nil
	return nil
}

// runE wraps a command body so the account database is closed whether or
// not the body fails.
func (s *simulator) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if cerr := s.close(); err == nil {
			err = cerr
		}
		return err
	}
}
