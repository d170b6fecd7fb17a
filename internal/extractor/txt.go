package extractor

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// TXTBlockLines is the number of plain-text lines grouped into one segment.
const TXTBlockLines = 40

// ErrInvalidEncoding is returned when a TXT file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("failed to read TXT file: content is not valid UTF-8")

func extractTXT(data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	res := &Result{}
	if strings.TrimSpace(text) == "" {
		return res, nil
	}
	lines := splitLines(text)

	for i := 0; i < len(lines); i += TXTBlockLines {
		end := i + TXTBlockLines
		if end > len(lines) {
			end = len(lines)
		}
		// Blank blocks stay so the chunk partition and spacing match the file.
		res.keep(strings.Join(lines[i:end], "\n"))
	}
	return res, nil
}

// splitLines splits on \n, \r\n and \r. A trailing line break does not
// produce a final empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
