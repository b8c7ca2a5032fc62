package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags the type of a raw tabular cell.
type CellKind string

const (
	CellString    CellKind = "string"
	CellDouble    CellKind = "double"
	CellInteger   CellKind = "integer"
	CellBoolean   CellKind = "boolean"
	CellTimestamp CellKind = "timestamp"
	CellDate      CellKind = "date"
	CellAbsent    CellKind = "absent"
)

// Cell is a closed tagged variant for one value of a remote result row.
// Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string  // string, timestamp and date kinds
	Double float64 // double kind
	Int    int64   // integer kind
	Bool   bool    // boolean kind
}

// RawRow maps column name to raw cell.
type RawRow map[string]Cell

// Absent is the zero-information cell.
func Absent() Cell { return Cell{Kind: CellAbsent} }

// StringCell builds a string cell.
func StringCell(s string) Cell { return Cell{Kind: CellString, Text: s} }

// DoubleCell builds a double cell.
func DoubleCell(v float64) Cell { return Cell{Kind: CellDouble, Double: v} }

// IntegerCell builds an integer cell.
func IntegerCell(v int64) Cell { return Cell{Kind: CellInteger, Int: v} }

// BooleanCell builds a boolean cell.
func BooleanCell(v bool) Cell { return Cell{Kind: CellBoolean, Bool: v} }

// TimestampCell builds a timestamp cell from its textual form.
func TimestampCell(s string) Cell { return Cell{Kind: CellTimestamp, Text: s} }

// DateCell builds a date cell from its textual form.
func DateCell(s string) Cell { return Cell{Kind: CellDate, Text: s} }

// String renders the cell as text. Absent cells render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellString, CellTimestamp, CellDate:
		return c.Text
	case CellDouble:
		return strconv.FormatFloat(c.Double, 'f', -1, 64)
	case CellInteger:
		return strconv.FormatInt(c.Int, 10)
	case CellBoolean:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// ParseCell builds a cell from a textual datum and the remote column type.
// A nil datum is absent. Values that do not parse under their declared numeric
// or boolean type are kept as strings so the normalizer can decide.
func ParseCell(columnType string, datum *string) Cell {
	if datum == nil {
		return Absent()
	}
	v := *datum

	switch KindForColumnType(columnType) {
	case CellDouble:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return DoubleCell(f)
		}
	case CellInteger:
		if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return IntegerCell(i)
		}
	case CellBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return BooleanCell(b)
		}
	case CellTimestamp:
		return TimestampCell(v)
	case CellDate:
		return DateCell(v)
	}
	return StringCell(v)
}

// KindForColumnType maps a query-engine column type name to a cell kind.
// Parameterised types such as decimal(10,2) or varchar(32) are matched by prefix.
func KindForColumnType(columnType string) CellKind {
	t := strings.ToLower(strings.TrimSpace(columnType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}

	switch t {
	case "double", "float", "real", "decimal":
		return CellDouble
	case "integer", "int", "bigint", "smallint", "tinyint":
		return CellInteger
	case "boolean":
		return CellBoolean
	case "date":
		return CellDate
	}
	if strings.HasPrefix(t, "timestamp") {
		return CellTimestamp
	}
	return CellString
}

// GoString keeps test failure output readable.
func (c Cell) GoString() string {
	return fmt.Sprintf("Cell{%s:%q}", c.Kind, c.String())
}
