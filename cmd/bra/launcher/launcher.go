package launcher

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bra/flags"
)

// metadata keys set by the Before hook
const (
	configKey = "config"
	loggerKey = "logger"
)

var app = newApp()

func newApp() *cli.App {
	app := flags.NewApp()
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.ReaderFlags()...)
	app.Before = setup
	app.Commands = []cli.Command{
		getCommand,
		sliceCommand,
		catCommand,
		statCommand,
	}
	return app
}

// Launch parses the arguments and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}

// setup builds the configuration and the logger once, from the global flags,
// and hands them to the commands through the app metadata.
func setup(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging, ctx.App.ErrWriter)
	if err != nil {
		return err
	}
	ctx.App.Metadata[configKey] = cfg
	ctx.App.Metadata[loggerKey] = log

	log.WithFields(logrus.Fields{
		"preset":   cfg.Reader.Preset,
		"capacity": cfg.Reader.Capacity,
	}).Debug("Configuration loaded")
	return nil
}

func configFrom(ctx *cli.Context) (Config, *logrus.Logger, error) {
	cfg, ok := ctx.App.Metadata[configKey].(Config)
	if !ok {
		return Config{}, nil, errors.New("launcher: configuration missing")
	}
	log, ok := ctx.App.Metadata[loggerKey].(*logrus.Logger)
	if !ok {
		return Config{}, nil, errors.New("launcher: logger missing")
	}
	return cfg, log, nil
}
