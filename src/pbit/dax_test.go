package pbit

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"market-reporter/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() models.MReportRow {
	return models.MReportRow{
		Date:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:       100.5,
		High:       101.25,
		Low:        99.75,
		Close:      100.0,
		Volume:     12345,
		ChangePerc: -0.4975,
		Volatility: math.NaN(),
		IsAnomaly:  false,
		Ticker:     "TSLA",
	}
}

// -----------------------------------------------------------------------------

func TestDataTableExpression_SingleRow(t *testing.T) {
	table := FinanceTable("Finance", []models.MReportRow{sampleRow()})

	expr, err := DataTableExpression(table, FormatOptions{})
	require.NoError(t, err)

	expected := `DATATABLE (
    "Date", DATETIME, "Open", DOUBLE, "High", DOUBLE, "Low", DOUBLE, "Close", DOUBLE, "Volume", INTEGER, "ChangePerc", DOUBLE, "Volatility", DOUBLE, "IsAnomaly", BOOLEAN, "Ticker", STRING,
    {
        { "2024-01-02 00:00:00", 100.5, 101.25, 99.75, 100, 12345, -0.4975, BLANK(), FALSE, "TSLA" }
    }
)`
	assert.Equal(t, expected, expr)
}

func TestDataTableExpression_RowSeparators(t *testing.T) {
	r1 := sampleRow()
	r2 := sampleRow()
	r2.Date = r2.Date.AddDate(0, 0, 1)
	r2.IsAnomaly = true
	table := FinanceTable("Finance", []models.MReportRow{r1, r2})

	expr, err := DataTableExpression(table, FormatOptions{})
	require.NoError(t, err)

	lines := strings.Split(expr, "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasSuffix(lines[3], "},"), "first row must end with a comma: %q", lines[3])
	assert.True(t, strings.HasSuffix(lines[4], "}"), "last row must not end with a comma: %q", lines[4])
	assert.Contains(t, lines[4], "TRUE")
}

func TestDataTableExpression_Empty(t *testing.T) {
	table := Table{Name: "Finance", Columns: FinanceColumns}

	_, err := DataTableExpression(table, FormatOptions{})
	assert.ErrorIs(t, err, ErrInputEmpty)
}

func TestDataTableExpression_RowWidthMismatch(t *testing.T) {
	table := Table{
		Name:    "Finance",
		Columns: FinanceColumns,
		Rows: [][]interface{}{
			{time.Now(), 1.0, 1.0, 1.0, 1.0, int64(1), 0.0, 0.0, false}, // 9 of 10
		},
	}

	_, err := DataTableExpression(table, FormatOptions{})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDataTableExpression_TypeMismatch(t *testing.T) {
	row := []interface{}{
		time.Now(), "not-a-float", 1.0, 1.0, 1.0, int64(1), 0.0, 0.0, false, "TSLA",
	}
	table := Table{Name: "Finance", Columns: FinanceColumns, Rows: [][]interface{}{row}}

	_, err := DataTableExpression(table, FormatOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `column "Open"`)
}

func TestDataTableExpression_EscapeStrings(t *testing.T) {
	row := sampleRow()
	row.Ticker = `A"B\C`
	table := FinanceTable("Finance", []models.MReportRow{row})

	raw, err := DataTableExpression(table, FormatOptions{})
	require.NoError(t, err)
	assert.Contains(t, raw, `"A"B\C"`)

	escaped, err := DataTableExpression(table, FormatOptions{EscapeStrings: true})
	require.NoError(t, err)
	assert.Contains(t, escaped, `"A\"B\\C"`)
}

// -----------------------------------------------------------------------------

func TestFormatDouble(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "BLANK()"},
		{0, "0"},
		{100.0, "100"},
		{-3.0, "-3"},
		{100.5, "100.5"},
		{-0.4975, "-0.4975"},
		{0.123456789, "0.12345679"}, // 8 decimals, rounded
		{2.10000000, "2.1"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, formatDouble(tc.in), "formatDouble(%v)", tc.in)
	}
}

func TestFormatLiteral_IntegerFromFloat(t *testing.T) {
	col := Column{Name: "Volume", Type: TypeInteger}

	lit, err := formatLiteral(col, float64(987654), FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "987654", lit)

	lit, err = formatLiteral(col, math.NaN(), FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "0", lit)
}

func TestFormatLiteral_BooleanKeywords(t *testing.T) {
	col := Column{Name: "IsAnomaly", Type: TypeBoolean}

	lit, err := formatLiteral(col, true, FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "TRUE", lit)

	_, err = formatLiteral(col, "yes", FormatOptions{})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

// -----------------------------------------------------------------------------

func TestFinanceTable_FieldOrder(t *testing.T) {
	table := FinanceTable("Finance", []models.MReportRow{sampleRow()})

	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0], len(FinanceColumns))
	assert.Equal(t, "TSLA", table.Rows[0][9])
	assert.Equal(t, int64(12345), table.Rows[0][5])
}
