package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Writer appends stats rows to a CSV file, emitting the header only when the
// file is new or empty.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting path. The file is created lazily on
// the first append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append writes the rows to the end of the file.
func (w *Writer) Append(rows []DayStats) error {
	if len(rows) == 0 {
		return nil
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open telemetry file %q: %w", w.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		err = gocsv.MarshalFile(&rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("write telemetry rows: %w", err)
	}
	return nil
}
