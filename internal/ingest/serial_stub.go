//go:build !linux

package ingest

import (
	"fmt"
	"io"
)

func openSerial(path string, baud int) (io.ReadCloser, error) {
	return nil, fmt.Errorf("serial ingest not supported on this platform")
}
