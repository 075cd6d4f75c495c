// Package formatting converts byte sizes between counts and human-readable
// strings such as "1MB".
package formatting

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned for byte size strings that cannot be parsed.
var ErrInvalidSize = errors.New("invalid byte size")

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with base-1024 units and the given decimal precision.
func FormatBytes(n int64, precision int) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	exp := min(int(math.Log(float64(n))/math.Log(1024)), len(units)-1)
	value := float64(n) / math.Pow(1024, float64(exp))

	return strconv.FormatFloat(value, 'f', max(precision, 0), 64) + " " + units[exp]
}

// ParseBytes parses sizes such as "512", "64KB", or "1.5 mb" (base-1024,
// case-insensitive). A bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	unit := strings.ToUpper(m[2])
	if unit == "" {
		unit = "B"
	}

	exp := slices.Index(units, unit)
	if exp < 0 {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, m[2])
	}

	return int64(value * math.Pow(1024, float64(exp))), nil
}
