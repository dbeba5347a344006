package constants

import "strings"

// Source formats a proposal document can be read from.
const (
	PDF = "PDF"
	TXT = "TXT"
)

// AllowedExtensions maps a normalized file extension to its source format.
var AllowedExtensions = map[string]string{
	"pdf":  PDF,
	"txt":  TXT,
	"text": TXT,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the source format for a normalized extension, or "" if unsupported.
func MapExtToFormat(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}
