package pbit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"market-reporter/src/models"
)

// -----------------------------------------------------------------------------
// DATATABLE expression formatter
//
// Turns a typed table into the DAX expression embedded in the model schema.
// The consumer's parser is strict: keyword casing, brace/paren nesting and
// the per-type literal grammar below are load-bearing.
// -----------------------------------------------------------------------------

// ColumnType is the closed set of semantic column types.
type ColumnType int

const (
	TypeDateTime ColumnType = iota
	TypeDouble
	TypeInteger
	TypeBoolean
	TypeString
)

// Keyword returns the type keyword used in the DATATABLE header clause.
func (t ColumnType) Keyword() string {
	switch t {
	case TypeDateTime:
		return "DATETIME"
	case TypeDouble:
		return "DOUBLE"
	case TypeInteger:
		return "INTEGER"
	case TypeBoolean:
		return "BOOLEAN"
	default:
		return "STRING"
	}
}

// DataType returns the column type name declared in the model schema document.
func (t ColumnType) DataType() string {
	switch t {
	case TypeDateTime:
		return "dateTime"
	case TypeDouble:
		return "double"
	case TypeInteger:
		return "int64"
	case TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// -----------------------------------------------------------------------------

// Column pairs a name with its declared type. Declaration order is the order
// row fields are emitted in; the two must never diverge.
type Column struct {
	Name string
	Type ColumnType
}

// FinanceColumns is the report table schema, in emission order.
var FinanceColumns = []Column{
	{"Date", TypeDateTime},
	{"Open", TypeDouble},
	{"High", TypeDouble},
	{"Low", TypeDouble},
	{"Close", TypeDouble},
	{"Volume", TypeInteger},
	{"ChangePerc", TypeDouble},
	{"Volatility", TypeDouble},
	{"IsAnomaly", TypeBoolean},
	{"Ticker", TypeString},
}

// Table is an immutable ordered row set sharing one column schema.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// FinanceTable builds a Table from derived report rows, emitting fields in
// FinanceColumns order.
func FinanceTable(name string, rows []models.MReportRow) Table {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{
			r.Date, r.Open, r.High, r.Low, r.Close,
			r.Volume, r.ChangePerc, r.Volatility, r.IsAnomaly, r.Ticker,
		})
	}
	return Table{Name: name, Columns: FinanceColumns, Rows: out}
}

// -----------------------------------------------------------------------------

// FormatOptions tunes literal rendering.
type FormatOptions struct {
	// EscapeStrings escapes `"` and `\` inside string literals. The observed
	// consumer workflow was validated without escaping, so this is opt-in;
	// leaving it off reproduces the legacy bytes (and the legacy hazard for
	// strings containing those characters).
	EscapeStrings bool
}

// -----------------------------------------------------------------------------

// DataTableExpression renders the full DATATABLE expression for a table.
// An empty table returns ErrInputEmpty; a row whose width or field types
// disagree with the schema returns ErrSchemaMismatch.
func DataTableExpression(t Table, opts FormatOptions) (string, error) {
	if len(t.Rows) == 0 {
		return "", ErrInputEmpty
	}

	var b strings.Builder
	b.WriteString("DATATABLE (\n    ")

	// Header clause: "Name", TYPE pairs in schema order.
	for i, col := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q, %s", col.Name, col.Type.Keyword())
	}
	b.WriteString(",\n    {\n")

	for ri, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return "", fmt.Errorf("row %d has %d fields, schema declares %d: %w",
				ri, len(row), len(t.Columns), ErrSchemaMismatch)
		}

		b.WriteString("        { ")
		for ci, col := range t.Columns {
			if ci > 0 {
				b.WriteString(", ")
			}
			lit, err := formatLiteral(col, row[ci], opts)
			if err != nil {
				return "", fmt.Errorf("row %d column %q: %w", ri, col.Name, err)
			}
			b.WriteString(lit)
		}
		b.WriteString(" }")
		if ri < len(t.Rows)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString("    }\n)")
	return b.String(), nil
}

// -----------------------------------------------------------------------------

// formatLiteral renders one field according to its declared column type.
func formatLiteral(col Column, v interface{}, opts FormatOptions) (string, error) {
	switch col.Type {

	case TypeDateTime:
		ts, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("expected time.Time, got %T: %w", v, ErrSchemaMismatch)
		}
		return strconv.Quote(ts.Format("2006-01-02 15:04:05")), nil

	case TypeDouble:
		if v == nil {
			return "BLANK()", nil
		}
		f, ok := toFloat(v)
		if !ok {
			return "", fmt.Errorf("expected float, got %T: %w", v, ErrSchemaMismatch)
		}
		return formatDouble(f), nil

	case TypeInteger:
		if v == nil {
			return "0", nil
		}
		n, ok := toInt(v)
		if !ok {
			return "", fmt.Errorf("expected integer, got %T: %w", v, ErrSchemaMismatch)
		}
		return strconv.FormatInt(n, 10), nil

	case TypeBoolean:
		flag, ok := v.(bool)
		if !ok {
			return "", fmt.Errorf("expected bool, got %T: %w", v, ErrSchemaMismatch)
		}
		if flag {
			return "TRUE", nil
		}
		return "FALSE", nil

	default: // TypeString
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("expected string, got %T: %w", v, ErrSchemaMismatch)
		}
		if opts.EscapeStrings {
			s = strings.ReplaceAll(s, `\`, `\\`)
			s = strings.ReplaceAll(s, `"`, `\"`)
		}
		return `"` + s + `"`, nil
	}
}

// -----------------------------------------------------------------------------

// formatDouble renders a float with a dot decimal separator and no grouping.
// Missing values (NaN) become the explicit blank sentinel. Integral values
// drop the fractional part; others keep up to 8 decimals with trailing zeros
// trimmed, matching the legacy generator exactly.
func formatDouble(f float64) string {
	if math.IsNaN(f) {
		return "BLANK()"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', 8, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// -----------------------------------------------------------------------------

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, true
		}
		return int64(n), true
	}
	return 0, false
}
