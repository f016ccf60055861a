// internal/daily/daily.go
//
// Date helpers for the daily challenge.

package daily

import "time"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
