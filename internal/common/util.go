package common

import (
	"regexp"
	"time"
)

// Default pool of daily goals, in seconds.
var DefaultGoalPool = []float64{
	(15 * time.Minute).Seconds(),
	(20 * time.Minute).Seconds(),
	(25 * time.Minute).Seconds(),
	(30 * time.Minute).Seconds(),
	(45 * time.Minute).Seconds(),
	(60 * time.Minute).Seconds(),
}

var unsafeKeyChars = regexp.MustCompile(`[/#?%\s]+`)

// SanitizeKey replaces every run of characters which are unsafe in a record
// key with an underscore.
func SanitizeKey(s string) string {
	return unsafeKeyChars.ReplaceAllString(s, "_")
}
