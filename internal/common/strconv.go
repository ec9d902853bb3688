package common

import (
	"strconv"
	"strings"
)

// AtoiDefault converts the provided string to an integer falling back to the default when parsing fails.
func AtoiDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// PositiveOr returns value when it is greater than zero and def otherwise.
func PositiveOr(value, def int) int {
	if value > 0 {
		return value
	}
	return def
}
