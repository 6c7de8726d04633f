package decoder

import (
	"errors"
	"fmt"
	"io"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/dhcgn/msg-extract/model"
)

func decodeEML(r io.Reader) (*model.Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse mail: %w", err)
	}
	defer mr.Close()

	date := strings.TrimSpace(mr.Header.Get("Date"))

	var fallback *string
	for {
		part, err := mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read part: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := h.ContentType()
		if err != nil {
			contentType = "text/plain"
		}
		if !strings.HasPrefix(contentType, "text/") {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s body: %w", contentType, err)
		}

		if contentType == "text/plain" {
			return &model.Message{Text: string(body), DateText: date}, nil
		}
		if fallback == nil {
			text := string(body)
			fallback = &text
		}
	}

	if fallback != nil {
		return &model.Message{Text: *fallback, DateText: date}, nil
	}

	return nil, ErrNoTextBody
}
