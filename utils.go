package tbx

import (
	"regexp"
	"strings"
)

// DefaultFormat is the archive format used when none is given.
const DefaultFormat = "zip"

var (
	unsafeNameChars     = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// SafeName replaces every character outside [A-Za-z0-9._-] with "_".
func SafeName(s string) string {
	return unsafeNameChars.ReplaceAllString(s, "_")
}

// ArchiveName builds "<package>_<version>_<platform>.<format>" with unsafe
// characters replaced. An empty format falls back to DefaultFormat.
func ArchiveName(pkg, version, platform, format string) string {
	if format == "" {
		format = DefaultFormat
	}
	base := strings.Join([]string{SafeName(pkg), SafeName(version), SafeName(platform)}, "_")
	return base + "." + SafeName(format)
}

// IsValidTableName checks that name is a plain lowercase SQL identifier of
// at most 63 characters.
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}
