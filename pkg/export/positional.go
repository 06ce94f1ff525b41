package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	// recordType is the literal first character of every positional record.
	recordType = "1"
	// indexWidth is the right-aligned sequential row index slot after the
	// record type.
	indexWidth = 6
)

// PositionalEncoder renders rows in the fixed-width record format consumed
// by the downstream statistical-processing tool: no delimiters, no header,
// every field padded or truncated to its declared width.
type PositionalEncoder struct{}

// NewPositionalEncoder builds a fixed-width encoder.
func NewPositionalEncoder() *PositionalEncoder {
	return &PositionalEncoder{}
}

// Render produces one line per row: the record type, a 6-character row
// index starting at 1, then each field formatted to its width. Lines are
// joined with LF.
func (e *PositionalEncoder) Render(fields []Field, rows []Row) ([]byte, error) {
	return e.render(fields, rows, nil)
}

// RenderWithTotals appends an aggregate totals record after the data rows.
// The totals record reuses the record type with a literal index of 1 and
// carries only the numeric fields, zero-padded instead of space-padded.
func (e *PositionalEncoder) RenderWithTotals(fields []Field, rows []Row, totals Row) ([]byte, error) {
	return e.render(fields, rows, totals)
}

func (e *PositionalEncoder) render(fields []Field, rows []Row, totals Row) ([]byte, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("positional export requires at least one field")
	}

	buf := &bytes.Buffer{}
	for i, row := range rows {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(recordType)
		buf.WriteString(Pad(strconv.Itoa(i+1), indexWidth, AlignRight, ' '))
		for _, f := range fields {
			buf.WriteString(Pad(row[f.Key], f.Width, f.Align, ' '))
		}
	}

	if totals != nil {
		if len(rows) > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(recordType)
		buf.WriteString(Pad("1", indexWidth, AlignRight, ' '))
		for _, f := range fields {
			if !f.Numeric {
				continue
			}
			buf.WriteString(Pad(totals[f.Key], f.Width, AlignRight, '0'))
		}
	}

	return buf.Bytes(), nil
}

// Pad fits text into an exact character width: values at or over the width
// are sliced to it, shorter values are padded on the declared side.
func Pad(text string, width int, align Alignment, padChar rune) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) >= width {
		return string(runes[:width])
	}
	filler := strings.Repeat(string(padChar), width-len(runes))
	if align == AlignRight {
		return filler + text
	}
	return text + filler
}
