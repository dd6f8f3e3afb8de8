package launcher

import (
	"fmt"
	"io"
	"os"
)

// stdin is where "-" reads from.
var stdin io.Reader = os.Stdin

// repeatReader is an endless stream of one byte value.
type repeatReader byte

func (b repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

// openSource returns the forward-only byte source selected by cfg and the
// function releasing it.
func openSource(cfg ReaderConfig) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	if cfg.Repeat >= 0 {
		return repeatReader(byte(cfg.Repeat)), noop, nil
	}
	if cfg.Input == "-" || cfg.Input == "" {
		return stdin, noop, nil
	}
	f, err := os.Open(resolvePath(cfg.Input))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, f.Close, nil
}
