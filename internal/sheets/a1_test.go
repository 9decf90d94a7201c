package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnName(t *testing.T) {
	tests := map[int]string{1: "A", 3: "C", 26: "Z", 27: "AA", 52: "AZ", 53: "BA", 702: "ZZ", 703: "AAA"}
	for col, want := range tests {
		assert.Equal(t, want, columnName(col), "column %d", col)
	}
}

func TestCellRange(t *testing.T) {
	assert.Equal(t, "'Sheet1'!C5", cellRange("Sheet1", 5, 3))
	assert.Equal(t, "'Bob''s sheet'!A1", cellRange("Bob's sheet", 1, 1))
	assert.Equal(t, "'Portfolio'!A:A", columnRange("Portfolio", 1))
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `Bob\'s \\ sheet`, escapeQuery(`Bob's \ sheet`))
}
