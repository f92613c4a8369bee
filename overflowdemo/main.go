// Command overflowdemo shows how an unsigned wraparound in a size computation
// turns into a heap buffer overflow.
//
// It prints the pretend user input and the wrapped allocation size, allocates
// that many bytes, and copies a longer string into them. With the default heap
// allocator the overrun silently corrupts memory (build with -asan to see it).
// The redzone and guard allocators make the overrun observable.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/cespare/playground/internal/conf"
	"github.com/cespare/playground/internal/llog"
	"github.com/cespare/playground/internal/overflow"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "overflowdemo",
		Usage:     "overflow a buffer whose size wrapped around",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "conf", Usage: "optional TOML configuration `FILE`"},
			&cli.StringFlag{Name: "allocator", Usage: "`KIND` of buffer to overflow: heap, redzone, or guard"},
			&cli.BoolFlag{Name: "debug", Usage: "log debugging information to stderr"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cf, err := conf.Parse(c.String("conf"))
	if err != nil {
		return err
	}
	if c.IsSet("allocator") {
		cf.Allocator = c.String("allocator")
	}
	logger := llog.New(c.App.ErrWriter, "overflowdemo: ", cf.Debug || c.Bool("debug"))

	alloc, err := overflow.NewAllocator(cf.Allocator)
	if err != nil {
		return err
	}
	d := &overflow.Demo{Alloc: alloc, Log: logger}
	res, err := d.Run(c.App.Writer)
	if err != nil {
		return err
	}
	if res.Observed {
		fmt.Fprintf(c.App.Writer, "clobbered %d bytes past allocation\n", res.Clobbered)
	}
	return nil
}

// exitCode maps an error from run to a process exit status. An overrun stopped
// by a guard page gets its own status.
func exitCode(err error) int {
	var fe *overflow.FaultError
	if errors.As(err, &fe) {
		return 2
	}
	return 1
}

// fail reports err on w and returns the process exit status.
func fail(w io.Writer, err error) int {
	llog.New(w, "overflowdemo: ", false).Println(err)
	return exitCode(err)
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(fail(os.Stderr, err))
	}
}
