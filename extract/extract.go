// Package extract pulls labeled values out of message bodies.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrMarkerNotFound = errors.New("marker not found")

// Extract returns the trimmed text between the first match of the start
// pattern and the next literal occurrence of end.
//
//	Extract(" ", "!", "Hello, World!") // "World"
func Extract(start, end, text string) (string, error) {
	re, err := regexp.Compile(start)
	if err != nil {
		return "", fmt.Errorf("compile start marker %q: %w", start, err)
	}
	return extractWith(re, end, text)
}

func extractWith(start *regexp.Regexp, end, text string) (string, error) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", fmt.Errorf("start marker %q: %w", start.String(), ErrMarkerNotFound)
	}

	rest := text[loc[1]:]
	idx := strings.Index(rest, end)
	if idx < 0 {
		return "", fmt.Errorf("end marker %q after %q: %w", end, start.String(), ErrMarkerNotFound)
	}

	return strings.TrimSpace(rest[:idx]), nil
}
