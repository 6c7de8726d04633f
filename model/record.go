package model

// Marker delimits a field inside a message body. Start is a regular
// expression, End is matched literally after the start match.
type Marker struct {
	Start string
	End   string
}

// FieldSpec names an output column. A nil Marker means the value is taken
// from the message date rather than searched for in the body.
type FieldSpec struct {
	Name   string
	Marker *Marker
}

// Record holds the extracted values of one message in column order.
type Record struct {
	names  []string
	values map[string]string
}

func NewRecord(names []string) *Record {
	return &Record{
		names:  append([]string(nil), names...),
		values: make(map[string]string, len(names)),
	}
}

// Set stores value under name. Names outside the record's column set are ignored.
func (r *Record) Set(name, value string) {
	for _, n := range r.names {
		if n == name {
			r.values[name] = value
			return
		}
	}
}

func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) Names() []string {
	return append([]string(nil), r.names...)
}

// Values returns the field values in column order. Unset fields are empty.
func (r *Record) Values() []string {
	out := make([]string, len(r.names))
	for i, n := range r.names {
		out[i] = r.values[n]
	}
	return out
}
