package invoice

import (
	"fmt"
	"hash/fnv"
	"time"
)

// FormatNumber builds the invoice number for the seq-th invoice created on
// the given day, e.g. INV-20250810-0001. The sequence is 1-based and padded
// to four digits; beyond 9999 it simply grows wider.
func FormatNumber(day time.Time, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", day.Format("20060102"), seq)
}

// DayLockKey derives the advisory lock key that serializes invoice creation
// for a calendar day. Every creation for the same day must contend on the
// same key so the daily count and the insert happen as one atomic step.
func DayLockKey(day time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte("invoice-number:"))
	h.Write([]byte(day.Format(time.DateOnly)))

	return int64(h.Sum64())
}
