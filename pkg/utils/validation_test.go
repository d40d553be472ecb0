package utils

import "testing"

func TestIsSerial(t *testing.T) {
	cases := map[string]bool{
		"Q2AB-CDEF-1234":    true,
		"q2ab-cdef-1234":    true,
		"Q2AA-0000-0001":    true,
		"":                  false,
		"Q2AB-CDEF":         false,
		"Q2AB-CDEF-12345":   false,
		"Q2AB_CDEF_1234":    false,
		"Q2AB-CDEF-12!4":    false,
		"60-6b-44-84-dc-64": false,
	}

	for in, want := range cases {
		if got := IsSerial(in); got != want {
			t.Errorf("IsSerial(%q) = %v, want %v", in, got, want)
		}
	}
}
