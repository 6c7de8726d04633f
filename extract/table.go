package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dhcgn/msg-extract/model"
)

// DefaultFields is the field layout of the case notification messages.
// Declaration order is the output column order.
var DefaultFields = []model.FieldSpec{
	{Name: "date"},
	{Name: "comment", Marker: &model.Marker{Start: "Comment from .*: ", End: "\n"}},
	{Name: "case_number", Marker: &model.Marker{Start: "Case Number: ", End: "("}},
	{Name: "account", Marker: &model.Marker{Start: "Account: ", End: "\n"}},
	{Name: "contact", Marker: &model.Marker{Start: "Contact: ", End: "\n"}},
}

type field struct {
	name  string
	start *regexp.Regexp
	end   string
}

func (f field) fromDate() bool {
	return f.start == nil
}

// Table is a validated, compiled set of field specs.
type Table struct {
	fields []field
	names  []string
}

// NewTable compiles specs. Names must be unique and non-empty; marker-bearing
// specs need a valid start pattern and a non-empty end marker.
func NewTable(specs []model.FieldSpec) (*Table, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("field table is empty")
	}

	t := &Table{
		fields: make([]field, 0, len(specs)),
		names:  make([]string, 0, len(specs)),
	}
	seen := make(map[string]struct{}, len(specs))

	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, fmt.Errorf("fields[%d]: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("fields[%d]: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}

		f := field{name: name}
		if spec.Marker != nil {
			if spec.Marker.Start == "" {
				return nil, fmt.Errorf("fields[%d] (%s): start marker is required", i, name)
			}
			if spec.Marker.End == "" {
				return nil, fmt.Errorf("fields[%d] (%s): end marker is required", i, name)
			}
			re, err := regexp.Compile(spec.Marker.Start)
			if err != nil {
				return nil, fmt.Errorf("fields[%d] (%s): compile %q: %w", i, name, spec.Marker.Start, err)
			}
			f.start = re
			f.end = spec.Marker.End
		}

		t.fields = append(t.fields, f)
		t.names = append(t.names, name)
	}

	return t, nil
}

// MustTable is like NewTable but panics on an invalid table.
func MustTable(specs []model.FieldSpec) *Table {
	t, err := NewTable(specs)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultTable = MustTable(DefaultFields)

func DefaultTable() *Table {
	return defaultTable
}

// Names returns the column names in declaration order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Table) record(view model.MessageView) (*model.Record, error) {
	body := view.Body()
	rec := model.NewRecord(t.names)

	for _, f := range t.fields {
		if f.fromDate() {
			continue
		}
		value, err := extractWith(f.start, f.end, body)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		rec.Set(f.name, value)
	}

	date := view.Date()
	for _, f := range t.fields {
		if f.fromDate() {
			rec.Set(f.name, date)
		}
	}

	return rec, nil
}

// FieldResult is the outcome of looking up one field in a message.
type FieldResult struct {
	Name  string
	Value string
	Err   error
}

func (t *Table) check(view model.MessageView) []FieldResult {
	body := view.Body()
	date := view.Date()

	results := make([]FieldResult, 0, len(t.fields))
	for _, f := range t.fields {
		if f.fromDate() {
			results = append(results, FieldResult{Name: f.name, Value: date})
			continue
		}
		value, err := extractWith(f.start, f.end, body)
		results = append(results, FieldResult{Name: f.name, Value: value, Err: err})
	}
	return results
}
