package decoder

import (
	"errors"
	"fmt"
	"io"

	mboxlib "github.com/emersion/go-mbox"

	"github.com/dhcgn/msg-extract/model"
)

var ErrEmptyMbox = errors.New("mbox archive contains no messages")

// decodeMbox decodes the first message of an mbox archive.
func decodeMbox(r io.Reader) (*model.Message, error) {
	reader := mboxlib.NewReader(r)

	msgReader, err := reader.NextMessage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyMbox
		}
		return nil, fmt.Errorf("message 0: %w", err)
	}

	msg, err := decodeEML(msgReader)
	if err != nil {
		return nil, fmt.Errorf("message 0: %w", err)
	}
	return msg, nil
}
