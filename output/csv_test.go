package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhcgn/msg-extract/model"
)

var header = []string{"date", "comment", "case_number", "account", "contact"}

func record(values ...string) *model.Record {
	rec := model.NewRecord(header)
	for i, v := range values {
		rec.Set(header[i], v)
	}
	return rec
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")

	w, err := Create(path, header)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := w.Write(record("2024-01-01", "Hello there", "12345", "ACME", "Jane Doe")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(record("2024-01-02", "a, b", `say "hi"`, "line\nbreak", "")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "date,comment,case_number,account,contact\n" +
		"2024-01-01,Hello there,12345,ACME,Jane Doe\n" +
		"2024-01-02,\"a, b\",\"say \"\"hi\"\"\",\"line\nbreak\",\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCSVWriter_RowsFlushedBeforeClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")

	w, err := Create(path, header)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer w.Close()

	if err := w.Write(record("2024-01-01", "c", "1", "a", "p")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "date,comment,case_number,account,contact\n2024-01-01,c,1,a,p\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCSVWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	if err := os.WriteFile(path, []byte("stale content that is longer than the header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Create(path, []string{"date"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "date\n" {
		t.Errorf("output = %q, want %q", got, "date\n")
	}
}

func TestCSVWriter_WriteAfterClose(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "output.csv"), header)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Write(record("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() after Close error = %v, want ErrClosed", err)
	}
}

func TestCreate_BadPath(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "output.csv"), header)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
