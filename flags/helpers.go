package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp creates the bra command line application. Commands and flags are
// attached by the launcher.
func NewApp() *cli.App {

	app := cli.NewApp()
	app.Name = "bra"
	app.Usage = "Buffered random access over a sequential byte stream"
	app.Action = func(c *cli.Context) error {
		return cli.ShowAppHelp(c)
	}
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	return app

}
