package utils

import (
	"net/url"
	"strconv"
)

// QueryInt reads an integer query parameter, answering def when the
// parameter is absent or not a number.
func QueryInt(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return n
}
