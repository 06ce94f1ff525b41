package export

// Alignment positions a value inside its fixed-width slot.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Field describes one output column of the fixed export contract. Width and
// Align apply to the positional encoding only; Numeric fields additionally
// participate in the totals record.
type Field struct {
	Key     string
	Header  string
	Width   int
	Align   Alignment
	Numeric bool
}

// Row holds the already-formatted value of each field keyed by Field.Key.
// Missing keys render as empty values.
type Row map[string]string
