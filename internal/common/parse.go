package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEntityID converts the given decimal or 0x-prefixed string into an entity id.
func ParseEntityID(val string) (uint64, error) {
	str := strings.TrimSpace(val)
	base := 10

	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}

	id, err := strconv.ParseUint(str, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entity id %q: %w", val, err)
	}

	return id, nil
}

// SplitCSV splits a comma separated list, dropping empty entries.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

const bytesInMB = 1024 * 1024

func BytesToMB(bytes uint64) uint64 {
	return bytes / bytesInMB
}

func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
