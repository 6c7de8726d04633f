package extract

import (
	"github.com/dhcgn/msg-extract/model"
)

type recordState int

const (
	recordPending recordState = iota
	recordReady
)

// Message computes the record of a single message view on first access and
// serves the cached record afterwards. The view is treated as immutable.
type Message struct {
	view   model.MessageView
	table  *Table
	state  recordState
	record *model.Record
}

// NewMessage binds view to table. A nil table selects DefaultTable.
func NewMessage(view model.MessageView, table *Table) *Message {
	if table == nil {
		table = DefaultTable()
	}
	return &Message{view: view, table: table}
}

// Record returns the extracted record. A failed extraction is not cached.
func (m *Message) Record() (*model.Record, error) {
	if m.state == recordReady {
		return m.record, nil
	}

	rec, err := m.table.record(m.view)
	if err != nil {
		return nil, err
	}

	m.record = rec
	m.state = recordReady
	return rec, nil
}

// Check looks up every field without stopping at the first missing marker.
func (m *Message) Check() []FieldResult {
	return m.table.check(m.view)
}
