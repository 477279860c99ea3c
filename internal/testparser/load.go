package testparser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ReadInput reads a raw report. A missing file is not an error: it reads as
// empty, which every parser treats as an empty report.
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return data, nil
}
