package decoder

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/textproto"
	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/dhcgn/msg-extract/model"
)

const (
	streamBodyUnicode      = "__substg1.0_1000001F"
	streamBodyANSI         = "__substg1.0_1000001E"
	streamHeadersUnicode   = "__substg1.0_007D001F"
	streamHeadersANSI      = "__substg1.0_007D001E"
	streamProperties       = "__properties_version1.0"
	topLevelPropertyHeader = 32
	propertyEntrySize      = 16

	tagClientSubmitTime    uint32 = 0x00390040
	tagMessageDeliveryTime uint32 = 0x0E060040

	// 100ns intervals between 1601-01-01 and 1970-01-01.
	filetimeUnixOffset = 116444736000000000
)

var ErrMissingBody = errors.New("msg file has no body stream")

func decodeOutlook(r io.ReaderAt) (*model.Message, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("open compound file: %w", err)
	}

	streams := make(map[string][]byte)
	for {
		entry, err := doc.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("walk compound file: %w", err)
		}
		// attachments and recipients live in sub-storages
		if len(entry.Path) != 0 {
			continue
		}
		switch entry.Name {
		case streamBodyUnicode, streamBodyANSI, streamHeadersUnicode, streamHeadersANSI, streamProperties:
		default:
			continue
		}
		data, readErr := io.ReadAll(entry)
		if readErr != nil {
			return nil, fmt.Errorf("read stream %s: %w", entry.Name, readErr)
		}
		streams[entry.Name] = data
	}

	body, err := outlookBody(streams)
	if err != nil {
		return nil, err
	}

	return &model.Message{Text: body, DateText: outlookDate(streams)}, nil
}

func outlookBody(streams map[string][]byte) (string, error) {
	if data, ok := streams[streamBodyUnicode]; ok {
		return decodeUTF16(data)
	}
	if data, ok := streams[streamBodyANSI]; ok {
		return decodeANSI(data)
	}
	return "", ErrMissingBody
}

// outlookDate prefers the Date header of the original transport headers and
// falls back to the submit or delivery time property.
func outlookDate(streams map[string][]byte) string {
	var headers string
	if data, ok := streams[streamHeadersUnicode]; ok {
		headers, _ = decodeUTF16(data)
	} else if data, ok := streams[streamHeadersANSI]; ok {
		headers, _ = decodeANSI(data)
	}
	if date := headerDate(headers); date != "" {
		return date
	}

	props := streams[streamProperties]
	for _, tag := range []uint32{tagClientSubmitTime, tagMessageDeliveryTime} {
		if t, ok := systimeProperty(props, tag); ok {
			return t.Format(time.RFC1123Z)
		}
	}
	return ""
}

func headerDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	raw = strings.TrimRight(raw, "\r\n") + "\r\n\r\n"
	h, err := textproto.ReadHeader(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(h.Get("Date"))
}

// systimeProperty looks up a PT_SYSTIME value in a top-level property stream.
func systimeProperty(props []byte, tag uint32) (time.Time, bool) {
	if len(props) < topLevelPropertyHeader {
		return time.Time{}, false
	}
	for off := topLevelPropertyHeader; off+propertyEntrySize <= len(props); off += propertyEntrySize {
		if binary.LittleEndian.Uint32(props[off:off+4]) != tag {
			continue
		}
		ft := binary.LittleEndian.Uint64(props[off+8 : off+16])
		if ft == 0 {
			return time.Time{}, false
		}
		return filetimeToTime(ft), true
	}
	return time.Time{}, false
}

func filetimeToTime(ft uint64) time.Time {
	unix100ns := int64(ft) - filetimeUnixOffset
	return time.Unix(0, unix100ns*100).UTC()
}

func decodeUTF16(data []byte) (string, error) {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode utf-16: %w", err)
	}
	return strings.TrimRight(string(out), "\x00"), nil
}

func decodeANSI(data []byte) (string, error) {
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode cp1252: %w", err)
	}
	return strings.TrimRight(string(out), "\x00"), nil
}
