// Package status copies the current process's status pseudo-file
// (/proc/self/status) to a writer, and can summarize a few of its fields.
package status

import (
	"bufio"
	"io"
)

const (
	// DefaultPath is the pseudo-file dumped when no other path is configured.
	DefaultPath = "/proc/self/status"

	// LineBufferSize is the size of the line buffer, counting one byte for a
	// terminator. Each read returns at most LineBufferSize-1 bytes.
	LineBufferSize = 1000
)

// A ChunkReader reads its input in chunks of bounded size, each ending at the
// first newline or after max bytes, whichever comes first. A line longer than max
// bytes comes back over several calls to Next.
type ChunkReader struct {
	br *bufio.Reader
}

// NewChunkReader returns a ChunkReader reading at most max bytes per chunk.
// max must be at least 16, the smallest buffer bufio allows.
func NewChunkReader(r io.Reader, max int) *ChunkReader {
	// Hide any existing *bufio.Reader so that NewReaderSize does not hand it back
	// with a larger buffer.
	return &ChunkReader{br: bufio.NewReaderSize(struct{ io.Reader }{r}, max)}
}

// Next returns the next chunk. The slice is only valid until the next call.
// At the end of the input Next returns nil, io.EOF.
func (c *ChunkReader) Next() ([]byte, error) {
	chunk, err := c.br.ReadSlice('\n')
	switch err {
	case nil, bufio.ErrBufferFull:
		return chunk, nil
	case io.EOF:
		if len(chunk) > 0 {
			return chunk, nil
		}
		return nil, io.EOF
	}
	return chunk, err
}
