package timeparse

import "time"

const absoluteLayout = "2006-01-02 15:04:05"

func parseAbsoluteTime(s string) (time.Time, error) {
	return time.ParseInLocation(absoluteLayout, s, time.Local)
}
