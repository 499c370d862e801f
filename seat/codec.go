// Package seat maps between the three forms a seat identity takes: the
// zero-based row-major index the client works with, the display label
// shown to the patron ("A1"), and the lowercase key the inventory service
// uses in its layout map ("a1").
package seat

import (
	"fmt"
	"strings"
)

// Label converts a seat index to its display label: row letter ('A' plus
// the row offset) followed by the one-based column. Rows beyond 'Z' are
// not supported; callers validate layout dimensions before using indices.
func Label(index, cols int) string {
	row := index / cols
	col := index % cols
	return fmt.Sprintf("%c%d", 'A'+row, col+1)
}

// Key converts a seat index to the inventory key for the same seat.
func Key(index, cols int) string {
	return strings.ToLower(Label(index, cols))
}

// Index converts a zero-based (row, col) pair to a seat index. The total
// ordering over seats is row-major, left to right, top to bottom.
func Index(row, col, cols int) int {
	return row*cols + col
}

// RowCol is the inverse of Index.
func RowCol(index, cols int) (row, col int) {
	return index / cols, index % cols
}

// Labels converts a slice of seat indices to display labels, preserving
// order.
func Labels(indices []int, cols int) []string {
	labels := make([]string, 0, len(indices))
	for _, index := range indices {
		labels = append(labels, Label(index, cols))
	}
	return labels
}
