package helpers

import (
	"strconv"
	"time"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseDate accepts a plain calendar date (2006-01-02).
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
