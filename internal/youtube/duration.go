package youtube

import (
	"regexp"
	"strconv"
)

// isoDurationPattern matches the provider's ISO-8601 style duration token
// (PT#H#M#S). Each component is optional.
var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration converts a PT#H#M#S duration token into total seconds.
// Missing components default to 0; a malformed token yields 0.
func ParseISODuration(s string) int64 {
	match := isoDurationPattern.FindStringSubmatch(s)
	if match == nil {
		return 0
	}

	hours := parseComponent(match[1])
	minutes := parseComponent(match[2])
	seconds := parseComponent(match[3])

	return hours*3600 + minutes*60 + seconds
}

func parseComponent(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
