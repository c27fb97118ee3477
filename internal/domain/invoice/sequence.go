package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumberFor returns the document number following count existing documents,
// ex NumberFor(2024, 11) is "2024-0012"
func NumberFor(year int, count int) string {
	return fmt.Sprintf("%d-%04d", year, count+1)
}

// NextNumber numbers a new document issued at now
func NextNumber(now time.Time, count int) string {
	return NumberFor(now.Year(), count)
}

// Sequence returns the counter of a generated number, ex 12 for "2024-0012".
// Numbers entered by hand ("FAC-42") have no sequence and return 0.
func Sequence(number string) int {
	year, seq, ok := strings.Cut(number, "-")
	if !ok || len(year) != 4 {
		return 0
	}
	if _, err := strconv.Atoi(year); err != nil {
		return 0
	}
	n, err := strconv.Atoi(seq)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
