// Package decoder turns message files on disk into model.Message views.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhcgn/msg-extract/model"
)

var (
	ErrDecode            = errors.New("decode message")
	ErrUnsupportedFormat = errors.New("unsupported message format")
	ErrNoTextBody        = errors.New("message has no text body")
)

var (
	cfbMagic   = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	mboxPrefix = []byte("From ")
)

// FileDecoder opens a message file and decodes it according to its sniffed format.
type FileDecoder struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *FileDecoder {
	return &FileDecoder{logger: logger}
}

// Decode reads path and returns its body text and date. Every failure wraps ErrDecode.
func (d *FileDecoder) Decode(path string) (*model.Message, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer file.Close()

	prefix := make([]byte, len(cfbMagic))
	n, err := io.ReadFull(file, prefix)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDecode, path, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek %s: %w", ErrDecode, path, err)
	}

	format, err := Sniff(prefix[:n], path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	var msg *model.Message
	switch format {
	case model.FormatMsg:
		msg, err = decodeOutlook(file)
	case model.FormatMbox:
		msg, err = decodeMbox(file)
	default:
		msg, err = decodeEML(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %w", ErrDecode, path, format, err)
	}

	msg.Path = path
	msg.Format = format

	if d.logger != nil {
		d.logger.Debug("decoded message", "path", path, "format", format, "bodyLen", len(msg.Text), "date", msg.DateText)
	}

	return msg, nil
}

// Sniff picks a format from the leading bytes of a file, falling back to
// the extension of path when the content is inconclusive.
func Sniff(prefix []byte, path string) (model.Format, error) {
	switch {
	case bytes.HasPrefix(prefix, cfbMagic):
		return model.FormatMsg, nil
	case bytes.HasPrefix(prefix, mboxPrefix):
		return model.FormatMbox, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".msg":
		if len(prefix) > 0 {
			return "", fmt.Errorf("%w: not a compound file", ErrUnsupportedFormat)
		}
		return model.FormatMsg, nil
	case ".mbox":
		return model.FormatMbox, nil
	}

	return model.FormatEML, nil
}
