package status

import (
	"bytes"
	"fmt"
	"io"

	proc "github.com/cespare/goproc"
	"github.com/pkg/errors"
	"github.com/prometheus/procfs"
)

// A Summary is a parsed subset of the current process's status, plus the host's
// total memory for scale. Memory sizes are in bytes.
type Summary struct {
	Name     string
	PID      int
	TGID     int
	VmSize   uint64
	VmRSS    uint64
	MemTotal uint64

	// RSSFraction is VmRSS as a fraction of MemTotal.
	RSSFraction float64
}

// ReadSummary reads the status of the calling process from fs and the host
// memory total from /proc/meminfo.
func ReadSummary(fs procfs.FS) (*Summary, error) {
	p, err := fs.Self()
	if err != nil {
		return nil, errors.Wrap(err, "cannot find own process")
	}
	st, err := p.NewStatus()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read process status")
	}
	memInfo, err := proc.MemInfo()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read memory info")
	}
	s := &Summary{
		Name:   st.Name,
		PID:    st.PID,
		TGID:   st.TGID,
		VmSize: st.VmSize,
		VmRSS:  st.VmRSS,
		// NOTE: goproc scales kB values by 1000; procfs uses 1024.
		MemTotal: memInfo["MemTotal"] / 1000 * 1024,
	}
	if s.MemTotal > 0 {
		s.RSSFraction = float64(s.VmRSS) / float64(s.MemTotal)
	}
	return s, nil
}

// WriteTo writes the summary in the same "Key:\tvalue" layout as the status
// file itself.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Name:\t%s\n", s.Name)
	fmt.Fprintf(&buf, "Pid:\t%d\n", s.PID)
	fmt.Fprintf(&buf, "Tgid:\t%d\n", s.TGID)
	fmt.Fprintf(&buf, "VmSize:\t%d kB\n", s.VmSize/1024)
	fmt.Fprintf(&buf, "VmRSS:\t%d kB\n", s.VmRSS/1024)
	fmt.Fprintf(&buf, "MemTotal:\t%d kB\n", s.MemTotal/1024)
	fmt.Fprintf(&buf, "RSSFraction:\t%.6f\n", s.RSSFraction)
	return buf.WriteTo(w)
}
