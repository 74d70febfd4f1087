package og

import (
	"os"

	"orderaccumulator/pkg/exception"

	"github.com/quickfixgo/quickfix"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const settingVerbose = "Verbose"

type AcceptorConfig struct {
	SettingsPath string
	// Verbose forces the file log on regardless of the settings file.
	Verbose bool
}

// Acceptor hosts the FIX sessions described by a quickfix settings file.
type Acceptor struct {
	acceptor *quickfix.Acceptor
	path     string
}

// NewAcceptor parses the settings file and prepares a socket acceptor for
// app. Messages are stored on disk; the FIX traffic log is written to files
// only when verbose logging is on, otherwise it is discarded.
func NewAcceptor(app quickfix.Application, cfg AcceptorConfig) (*Acceptor, error) {
	if cfg.SettingsPath == "" {
		return nil, exception.ErrOrderEmptySettingsPath
	}

	f, err := os.Open(cfg.SettingsPath)
	if err != nil {
		return nil, errors.Wrapf(exception.ErrOrderReadSettings, "open %s, err: %+v", cfg.SettingsPath, err)
	}
	defer f.Close()

	settings, err := quickfix.ParseSettings(f)
	if err != nil {
		return nil, errors.Wrapf(exception.ErrOrderReadSettings, "parse %s, err: %+v", cfg.SettingsPath, err)
	}

	verbose, err := verboseEnabled(settings)
	if err != nil {
		return nil, err
	}

	logFactory := quickfix.NewNullLogFactory()
	if verbose || cfg.Verbose {
		if logFactory, err = quickfix.NewFileLogFactory(settings); err != nil {
			return nil, errors.Wrap(err, "create file log factory")
		}
	}

	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewFileStoreFactory(settings), settings, logFactory)
	if err != nil {
		return nil, errors.Wrap(err, "create acceptor")
	}

	return &Acceptor{acceptor: acceptor, path: cfg.SettingsPath}, nil
}

func (a *Acceptor) Start() error {
	if err := a.acceptor.Start(); err != nil {
		return errors.Wrap(err, "start acceptor")
	}
	logs.Infof("og: acceptor started, settings: %s", a.path)
	return nil
}

func (a *Acceptor) Stop() {
	a.acceptor.Stop()
	logs.Infof("og: acceptor stopped")
}

func verboseEnabled(settings *quickfix.Settings) (bool, error) {
	global := settings.GlobalSettings()
	if !global.HasSetting(settingVerbose) {
		return false, nil
	}
	verbose, err := global.BoolSetting(settingVerbose)
	if err != nil {
		return false, errors.Wrapf(exception.ErrOrderInvalidVerboseFlag, "err: %+v", err)
	}
	return verbose, nil
}
