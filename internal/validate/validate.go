package validate

import (
	"regexp"
	"strconv"
	"strings"

	"devinv/internal/domain"
)

var (
	reID   = regexp.MustCompile(`^[0-9]{1,18}$`)
	reType = regexp.MustCompile(`^[A-Za-z]{1,20}$`)
)

// ID validates a record id taken from a path or form value.
func ID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reID.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// Count parses a per-category generation count and clamps it to [1, limit].
func Count(s string, limit int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if limit > 0 && n > limit {
		return limit
	} // clamp to avoid abuse
	return n
}

// Category validates a known category name.
func Category(s string) (domain.Category, bool) {
	s = strings.TrimSpace(s)
	if !reType.MatchString(s) {
		return "", false
	}
	return domain.ParseCategory(s)
}
