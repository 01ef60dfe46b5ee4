package tabular_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikolastojicic02/mongodb-schema-optimization/tabular"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTableMapsHeaderToFields(t *testing.T) {
	path := writeFile(t, "store_id,store_name,city\n5,Downtown Roast,Belgrade\n6,Uptown,Novi Sad\n")
	rows, err := tabular.ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["store_name"] != "Downtown Roast" || rows[1]["city"] != "Novi Sad" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := tabular.ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, tabular.ErrMissingFile) {
		t.Errorf("got %v, want ErrMissingFile", err)
	}
}

func TestReadTablePadsAndTruncates(t *testing.T) {
	path := writeFile(t, "a,b,c\n1,2\n1,2,3,4\n")
	rows, err := tabular.ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["c"] != "" {
		t.Errorf("short row not padded: %v", rows[0])
	}
	if rows[1]["c"] != "3" {
		t.Errorf("long row not truncated: %v", rows[1])
	}
}

func TestReadTableHeaderOnly(t *testing.T) {
	path := writeFile(t, "a,b,c\n")
	rows, err := tabular.ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestReadTableTrimsBOMHeader(t *testing.T) {
	path := writeFile(t, "\uFEFFstore_id,city\n1,Belgrade\n")
	rows, err := tabular.ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0]["store_id"] != "1" {
		t.Errorf("BOM header not trimmed: %v", rows[0])
	}
}
