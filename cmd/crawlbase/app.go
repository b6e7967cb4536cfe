package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zenzer0s/crawlbase"
	"github.com/zenzer0s/crawlbase/internal/config"
	"github.com/zenzer0s/crawlbase/internal/scraper"
	"github.com/zenzer0s/crawlbase/internal/storage"
)

// cliUserID is the history owner for calls made from the command line.
const cliUserID int64 = 0

// app holds what every subcommand needs. It is filled in by setup.
type app struct {
	configDir  string
	noHistory  bool
	jsonOutput bool

	// clientOpts are appended to the options derived from config.
	clientOpts []crawlbase.Option

	cfg  config.Config
	log  *logrus.Logger
	repo storage.Repository
	svc  *scraper.Service
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configDir)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg

	a.log = logrus.New()
	a.log.SetFormatter(&logrus.JSONFormatter{})
	a.log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		a.log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}
	a.log.SetLevel(level)

	if !a.noHistory {
		repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, a.log)
		if err != nil {
			return fmt.Errorf("failed to initialize history database: %w", err)
		}
		a.repo = repo
	}

	svc, err := scraper.NewService(cfg, a.repo, a.log, a.clientOpts...)
	if err != nil {
		a.teardown(cmd, nil)
		return err
	}
	a.svc = svc
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

// parseParams turns repeated key=value flags into ordered params.
func parseParams(pairs []string) (crawlbase.Params, error) {
	var p crawlbase.Params
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", kv)
		}
		p = p.Set(strings.TrimSpace(key), value)
	}
	return p, nil
}
