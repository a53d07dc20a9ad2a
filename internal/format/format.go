package format

import (
	"fmt"
	"time"
)

// Seoul is the display time zone. It falls back to a fixed +09:00 zone when the
// zone database is unavailable.
var Seoul = loadSeoul()

func loadSeoul() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// Date renders t as a long Korean date, e.g. "2024년 7월 1일".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Seoul).Format("2006년 1월 2일")
}

// ISODate renders t as YYYY-MM-DD for datetime attributes.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Seoul).Format("2006-01-02")
}

// Count renders n with a Korean counter suffix, e.g. "3개".
func Count(n int) string {
	return fmt.Sprintf("%d개", n)
}
