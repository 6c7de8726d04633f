package extract

import (
	"errors"
	"testing"

	"github.com/dhcgn/msg-extract/model"
)

const sampleBody = "Comment from Agent: Hello there\nCase Number: 12345(ref)\nAccount: ACME\nContact: Jane Doe\n"

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		text  string
		want  string
	}{
		{name: "doc example", start: " ", end: "!", text: "Hello, World!", want: "World"},
		{name: "regex start", start: "Comment from .*: ", end: "\n", text: sampleBody, want: "Hello there"},
		{name: "paren end", start: "Case Number: ", end: "(", text: sampleBody, want: "12345"},
		{name: "trims whitespace", start: "Account:", end: "\n", text: "Account:   ACME  \n", want: "ACME"},
		{name: "empty value", start: "Account: ", end: "\n", text: "Account: \n", want: ""},
		{name: "greedy start", start: "Comment from .*: ", end: "\n", text: "Comment from A: B: C\n", want: "C"},
		{name: "first start match wins", start: "Contact: ", end: "\n", text: "Contact: one\nContact: two\n", want: "one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.start, tt.end, tt.text)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		text  string
	}{
		{name: "no start match", start: "Case Number: ", end: "(", text: "Account: ACME\n"},
		{name: "no end marker", start: "Case Number: ", end: "(", text: "Case Number: 12345\n"},
		{name: "end only before start", start: "Case Number: ", end: "(", text: "(ref) Case Number: 12345\n"},
		{name: "empty text", start: "x", end: "y", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.start, tt.end, tt.text)
			if !errors.Is(err, ErrMarkerNotFound) {
				t.Fatalf("Extract() error = %v, want ErrMarkerNotFound", err)
			}
			if got != "" {
				t.Errorf("Extract() = %q on failure", got)
			}
		})
	}
}

func TestExtract_InvalidPattern(t *testing.T) {
	_, err := Extract("(", ")", "()")
	if err == nil {
		t.Fatal("expected compile error")
	}
	if errors.Is(err, ErrMarkerNotFound) {
		t.Errorf("compile error reported as not found: %v", err)
	}
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		specs   []model.FieldSpec
		wantErr bool
	}{
		{name: "default", specs: DefaultFields},
		{name: "empty", specs: nil, wantErr: true},
		{name: "blank name", specs: []model.FieldSpec{{Name: " "}}, wantErr: true},
		{name: "duplicate", specs: []model.FieldSpec{{Name: "date"}, {Name: "date"}}, wantErr: true},
		{name: "bad regex", specs: []model.FieldSpec{{Name: "a", Marker: &model.Marker{Start: "[", End: "\n"}}}, wantErr: true},
		{name: "missing end", specs: []model.FieldSpec{{Name: "a", Marker: &model.Marker{Start: "a: "}}}, wantErr: true},
		{name: "missing start", specs: []model.FieldSpec{{Name: "a", Marker: &model.Marker{End: "\n"}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.specs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultTable_Names(t *testing.T) {
	want := []string{"date", "comment", "case_number", "account", "contact"}
	got := DefaultTable().Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Extract("Comment from .*: ", "\n", sampleBody); err != nil {
			b.Fatal(err)
		}
	}
}
