// Command statusdump copies /proc/self/status to stdout.
package main

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/cespare/playground/internal/conf"
	"github.com/cespare/playground/internal/llog"
	"github.com/cespare/playground/internal/status"
)

// appFs is the filesystem the status file is read from.
var appFs = afero.NewOsFs()

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "statusdump",
		Usage:     "print the status of this process as reported by " + status.DefaultPath,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "conf", Usage: "optional TOML configuration `FILE`"},
			&cli.BoolFlag{Name: "debug", Usage: "log debugging information to stderr"},
			&cli.BoolFlag{Name: "summary", Usage: "print a few parsed fields instead of the whole file"},
		},
		// Usage errors go to stderr through main like any other error; stdout
		// only ever carries the status file.
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return err
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cf, err := conf.Parse(c.String("conf"))
	if err != nil {
		return err
	}
	logger := llog.New(c.App.ErrWriter, "statusdump: ", cf.Debug || c.Bool("debug"))

	if c.Bool("summary") {
		fs, err := procfs.NewDefaultFS()
		if err != nil {
			return errors.Wrap(err, "cannot open procfs")
		}
		s, err := status.ReadSummary(fs)
		if err != nil {
			return err
		}
		_, err = s.WriteTo(c.App.Writer)
		return err
	}

	d := &status.Dumper{Fs: appFs, Path: cf.StatusPath, Log: logger}
	w := bufio.NewWriter(c.App.Writer)
	_, err = d.Dump(w)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

// fail reports err on w and returns the process exit status.
func fail(w io.Writer, err error) int {
	llog.New(w, "statusdump: ", false).Println(err)
	return 1
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(fail(os.Stderr, err))
	}
}
