package tbx

import (
	"fmt"
	"strings"
)

// Expand resolves input to the single candidate it is a case-insensitive
// prefix of. An exact match always wins. No match or more than one match
// is an ErrBadCommand.
func Expand(input string, candidates []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("empty command, expected one of %s: %w", strings.Join(candidates, ", "), ErrBadCommand)
	}

	needle := strings.ToLower(input)

	var matches []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == needle {
			return c, nil
		}
		if strings.HasPrefix(lc, needle) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unrecognized command %q, expected one of %s: %w", input, strings.Join(candidates, ", "), ErrBadCommand)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous command %q, could be %s: %w", input, strings.Join(matches, ", "), ErrBadCommand)
	}
}
