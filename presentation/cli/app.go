package cli

import (
	"fmt"

	"ui_automation/application/scenario"
	"ui_automation/domain/interfaces"
	"ui_automation/infrastructure/browser"
	"ui_automation/infrastructure/config"
	"ui_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

// app wires config, logging, session, journal store and runner together
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	recorder *browser.Recorder
	store    interfaces.JournalStore
	runner   *scenario.Runner
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func newApp(flags *rootFlags) (*app, error) {
	cfg, err := flags.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel)

	store, err := storage.NewJournalStore(cfg.JournalDir)
	if err != nil {
		return nil, err
	}

	session, err := browser.NewSession(cfg.Driver, cfg.BrowserOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	recorder := browser.NewRecorder(session, nil)

	return &app{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		store:    store,
		runner:   scenario.NewRunner(recorder, store, cfg.Timings(), cfg.BaseURL, logger),
	}, nil
}

// seed registers scenario fixtures when the session renders its own widgets
func (a *app) seed(fixtures []scenario.Fixture) {
	sim, ok := a.recorder.Session().(*browser.SimulatedDriver)
	if !ok {
		if len(fixtures) > 0 {
			a.logger.Debugf("Ignoring %d fixtures on %s session", len(fixtures), a.cfg.Driver)
		}
		return
	}
	for _, f := range fixtures {
		sim.AddField(browser.SimulatedField{
			Attribute: f.Field,
			Mode:      f.Mode,
			Options:   f.Options,
			Debounce:  f.Debounce,
			Nullable:  f.Nullable,
			Selected:  f.Selected,
		})
	}
}

func (a *app) Close() error {
	return a.recorder.Close()
}
