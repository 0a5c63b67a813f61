package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
)

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.csv")
	w := NewWriter(path)

	if err := w.Append([]DayStats{{Day: 1, Animals: 10, Balance: 900, Rating: 3}}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := w.Append([]DayStats{{Day: 2, Animals: 9, Balance: 950, Rating: 4}}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	if got := strings.Count(content, "mean_hunger"); got != 1 {
		t.Errorf("header appears %d times, want exactly once", got)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var rows []DayStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Day != 1 || rows[1].Day != 2 || rows[1].Rating != 4 {
		t.Errorf("rows = %+v, want the appended days in order", rows)
	}
}

func TestAppendNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.csv")
	if err := NewWriter(path).Append(nil); err != nil {
		t.Fatalf("empty append: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty append should not create the file")
	}
}
