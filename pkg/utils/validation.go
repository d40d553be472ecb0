package utils

import "regexp"

var serialRe = regexp.MustCompile(`^[0-9A-Za-z]{4}-[0-9A-Za-z]{4}-[0-9A-Za-z]{4}$`)

// IsSerial reports whether s looks like a network device serial (Q2AB-CDEF-1234).
func IsSerial(s string) bool {
	return serialRe.MatchString(s)
}
