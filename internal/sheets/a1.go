package sheets

import (
	"fmt"
	"strings"
)

// columnName converts a 1-based column index to its A1 letters (1 -> A, 27 -> AA).
func columnName(col int) string {
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// cellRange A1 notation of a single cell, rows and columns 1-based.
func cellRange(title string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", quoteTitle(title), columnName(col), row)
}

// columnRange A1 notation of a whole column.
func columnRange(title string, col int) string {
	c := columnName(col)
	return fmt.Sprintf("%s!%s:%s", quoteTitle(title), c, c)
}
