package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestKindForColumnType(t *testing.T) {
	tests := []struct {
		columnType string
		expected   CellKind
	}{
		{"varchar", CellString},
		{"varchar(32)", CellString},
		{"json", CellString},
		{"double", CellDouble},
		{"decimal(10,2)", CellDouble},
		{"REAL", CellDouble},
		{"bigint", CellInteger},
		{"integer", CellInteger},
		{"boolean", CellBoolean},
		{"date", CellDate},
		{"timestamp", CellTimestamp},
		{"timestamp with time zone", CellTimestamp},
		{"row(patient_id varchar)", CellString},
	}

	for _, tt := range tests {
		t.Run(tt.columnType, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForColumnType(tt.columnType))
		})
	}
}

func TestParseCell(t *testing.T) {
	assert.Equal(t, Absent(), ParseCell("double", nil))
	assert.Equal(t, DoubleCell(61.5), ParseCell("double", strPtr("61.5")))
	assert.Equal(t, IntegerCell(8000), ParseCell("bigint", strPtr("8000")))
	assert.Equal(t, BooleanCell(true), ParseCell("boolean", strPtr("true")))
	assert.Equal(t, DateCell("2024-01-02"), ParseCell("date", strPtr("2024-01-02")))
	assert.Equal(t, TimestampCell("2024-01-02 03:04:05.000"), ParseCell("timestamp", strPtr("2024-01-02 03:04:05.000")))

	// Unparseable typed values degrade to strings rather than failing.
	assert.Equal(t, StringCell("NaN?"), ParseCell("double", strPtr("NaN?")))
	assert.Equal(t, StringCell("yes"), ParseCell("boolean", strPtr("yes")))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", Absent().String())
	assert.Equal(t, "1.5", DoubleCell(1.5).String())
	assert.Equal(t, "42", IntegerCell(42).String())
	assert.Equal(t, "false", BooleanCell(false).String())
	assert.Equal(t, "2024-01-02", DateCell("2024-01-02").String())
}
