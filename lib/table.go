package lib

import (
	"regexp"
	"strconv"
)

var tablePattern = regexp.MustCompile(`^Table(\d+)$`)

// TableNumber extracts N from a tablet username of the form Table<N>.
func TableNumber(username string) (int, bool) {
	m := tablePattern.FindStringSubmatch(username)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
