package model

// Format identifies the container a message was decoded from.
type Format string

const (
	FormatMsg  Format = "msg"
	FormatEML  Format = "eml"
	FormatMbox Format = "mbox"
)

// MessageView is the read-only view extraction runs against.
type MessageView interface {
	Body() string
	Date() string
}

// Message represents a single decoded input file.
type Message struct {
	Path     string
	Format   Format
	Text     string
	DateText string
}

func (m *Message) Body() string {
	return m.Text
}

func (m *Message) Date() string {
	return m.DateText
}
