package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNumber(t *testing.T) {
	cases := []struct {
		username string
		want     int
		ok       bool
	}{
		{"Table1", 1, true},
		{"Table42", 42, true},
		{"table3", 0, false},
		{"Table", 0, false},
		{"Table7a", 0, false},
		{"Kitchen", 0, false},
	}

	for _, tc := range cases {
		got, ok := TableNumber(tc.username)
		assert.Equal(t, tc.ok, ok, tc.username)
		assert.Equal(t, tc.want, got, tc.username)
	}
}
