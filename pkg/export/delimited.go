package export

import (
	"bytes"
	"fmt"
	"strings"
)

// utf8BOM prefixes the delimited output so spreadsheet tools pick up UTF-8.
const utf8BOM = "\ufeff"

// DelimitedEncoder renders rows as comma-separated text with a header line.
// Unlike encoding/csv it quotes every field unconditionally (empties render
// as "") and joins lines with CRLF, which is the byte contract of the
// downstream consumers.
type DelimitedEncoder struct{}

// NewDelimitedEncoder builds a delimited-text encoder.
func NewDelimitedEncoder() *DelimitedEncoder {
	return &DelimitedEncoder{}
}

// Render produces the BOM-prefixed delimited bytes for the field layout and
// rows. Internal double quotes are doubled per RFC4180.
func (e *DelimitedEncoder) Render(fields []Field, rows []Row) ([]byte, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("delimited export requires at least one field")
	}

	buf := &bytes.Buffer{}
	buf.WriteString(utf8BOM)

	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = quote(f.Header)
	}
	buf.WriteString(strings.Join(headers, ","))

	record := make([]string, len(fields))
	for _, row := range rows {
		for i, f := range fields {
			record[i] = quote(row[f.Key])
		}
		buf.WriteString("\r\n")
		buf.WriteString(strings.Join(record, ","))
	}

	return buf.Bytes(), nil
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
