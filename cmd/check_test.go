package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dhcgn/msg-extract/decoder"
	"github.com/dhcgn/msg-extract/extract"
)

func writeEML(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "From: support@example.com\r\nDate: Mon, 01 Jan 2024 10:00:00 +0000\r\n\r\n" + body
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeEML(t, dir, "good.eml", "Comment from Agent: Hello there\nCase Number: 12345(ref)\nAccount: ACME\nContact: Jane Doe\n")

	var out bytes.Buffer
	if err := runCheck(&out, []string{good}, decoder.New(nil), extract.DefaultTable()); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}
	for _, want := range []string{"case_number", "12345", "Jane Doe"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunCheck_ReportsEveryFile(t *testing.T) {
	dir := t.TempDir()
	partial := writeEML(t, dir, "partial.eml", "Comment from Agent: hi\nAccount: ACME\n")
	good := writeEML(t, dir, "good.eml", "Comment from Agent: Hello there\nCase Number: 12345(ref)\nAccount: ACME\nContact: Jane Doe\n")
	missing := filepath.Join(dir, "missing.msg")

	var out bytes.Buffer
	err := runCheck(&out, []string{partial, missing, good}, decoder.New(nil), extract.DefaultTable())
	if err == nil {
		t.Fatal("expected error for incomplete files")
	}
	if !strings.Contains(err.Error(), "2 of 3") {
		t.Errorf("error = %v, want 2 of 3 files", err)
	}
	for _, want := range []string{"MISSING", "decode failed", "Jane Doe"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSummarize(t *testing.T) {
	if got := summarize("  a\n b  "); got != "a b" {
		t.Errorf("summarize() = %q, want %q", got, "a b")
	}
	if got := summarize(strings.Repeat("x", 50)); len(got) != 30 {
		t.Errorf("summarize() length = %d, want 30", len(got))
	}

	got := summarize(strings.Repeat("a", 26) + "éééééé")
	if !utf8.ValidString(got) {
		t.Errorf("summarize() = %q is not valid UTF-8", got)
	}
	if want := strings.Repeat("a", 26) + "é..."; got != want {
		t.Errorf("summarize() = %q, want %q", got, want)
	}
}
