package status

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/cespare/playground/internal/llog"
)

// An OpenError is returned by Dump when the status file cannot be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return "Error opening file: " + e.Err.Error() }
func (e *OpenError) Unwrap() error { return e.Err }
func (e *OpenError) Cause() error  { return e.Err }

// A Dumper copies a status file verbatim.
type Dumper struct {
	Fs   afero.Fs
	Path string
	Log  *llog.Logger
}

// NewDumper returns a Dumper for path on the OS filesystem.
func NewDumper(path string, log *llog.Logger) *Dumper {
	return &Dumper{
		Fs:   afero.NewOsFs(),
		Path: path,
		Log:  log,
	}
}

// Dump opens the file and writes its contents to w, one chunk of at most
// LineBufferSize-1 bytes at a time. Nothing is written to w if the open fails.
func (d *Dumper) Dump(w io.Writer) (n int64, err error) {
	log := d.Log
	if log == nil {
		log = llog.Discard()
	}
	f, err := d.Fs.Open(d.Path)
	if err != nil {
		return 0, &OpenError{Path: d.Path, Err: err}
	}
	defer f.Close()
	log.Debugf("opened %s", d.Path)

	cr := NewChunkReader(f, LineBufferSize-1)
	var reads int
	for {
		chunk, err := cr.Next()
		if len(chunk) > 0 {
			reads++
			m, err := w.Write(chunk)
			n += int64(m)
			if err != nil {
				return n, errors.Wrap(err, "cannot write status")
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, errors.Wrapf(err, "error reading %s", d.Path)
		}
	}
	log.Debugf("copied %d bytes from %s in %d reads", n, d.Path, reads)
	return n, nil
}
