package catalog

import (
	"errors"
	"testing"
)

func TestContainsDuplicateCode(t *testing.T) {
	cases := map[string]bool{
		"Error 1062: Duplicate entry '7' for key 'PRIMARY'": true,
		"Error 1452: Cannot add or update a child row":      false,
		"":                                                   false,
	}
	for msg, want := range cases {
		if got := containsDuplicateCode(msg); got != want {
			t.Errorf("containsDuplicateCode(%q) = %v, want %v", msg, got, want)
		}
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	if isDuplicateKeyErr(nil) {
		t.Error("nil error must not be a duplicate key error")
	}
	if !isDuplicateKeyErr(errors.New("Error 1062: Duplicate entry")) {
		t.Error("error containing code 1062 must be a duplicate key error")
	}
}
