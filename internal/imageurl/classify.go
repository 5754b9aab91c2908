// Package imageurl resolves stored image references into renderable URLs.
//
// Posts accumulated image_url values in several shapes over time: clean
// bucket-relative paths, bare UUID filenames, full storage URLs (public and
// signed), and a handful of unparseable strings. This package classifies a
// raw reference, synthesizes candidate URLs for it, and walks an ordered
// fallback cascade until one of them renders.
package imageurl

import (
	"regexp"
	"strings"
)

// DefaultPrefix is prepended to references stored without a folder prefix.
const DefaultPrefix = "blog"

// knownPrefixes are the folder names a canonical storage path may start with.
var knownPrefixes = []string{"blog/", "post-images/"}

// Kind identifies the shape of a stored image reference.
type Kind int

const (
	// KindUnknown matches nothing below; the raw value is used as-is.
	KindUnknown Kind = iota
	// KindCanonicalPath is a bucket-relative key with a known folder prefix.
	KindCanonicalPath
	// KindUUIDFilename is a UUID plus extension with no folder prefix.
	KindUUIDFilename
	// KindFullObjectURL is an absolute storage URL (public or signed form).
	KindFullObjectURL
	// KindBareFilename has an extension but no slash and is not a UUID.
	KindBareFilename
)

// String returns the kind name used in fixer reports and logs.
func (k Kind) String() string {
	switch k {
	case KindCanonicalPath:
		return "canonical-path"
	case KindUUIDFilename:
		return "uuid-filename"
	case KindFullObjectURL:
		return "full-object-url"
	case KindBareFilename:
		return "bare-filename"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying a raw reference.
// ExtractedPath is empty for KindUnknown.
type Classification struct {
	Kind          Kind
	ExtractedPath string
}

var (
	uuidFilenameRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.[a-zA-Z0-9]+$`)
	// objectURLRe extracts the object key from both public and signed storage
	// URL forms: /storage/v1/object/{public|sign|auth}/{bucket}/{key} and the
	// S3-style form without the marker segment.
	objectURLRe = regexp.MustCompile(`/storage/v\d+/(?:object|sign)/(?:(?:public|sign|auth)/)?[^/?]+/([^?]+)`)
)

// Classify determines the shape of a raw stored image reference.
// It is pure string matching; no network calls. Surrounding quotes are
// stripped first (a double-encoding bug at the write path stored some
// values as `"blog/foo.jpg"`).
func Classify(raw string) Classification {
	raw = CleanReference(raw)
	if raw == "" {
		return Classification{Kind: KindUnknown}
	}

	for _, p := range knownPrefixes {
		if strings.HasPrefix(raw, p) {
			return Classification{Kind: KindCanonicalPath, ExtractedPath: raw}
		}
	}

	if uuidFilenameRe.MatchString(raw) {
		return Classification{Kind: KindUUIDFilename, ExtractedPath: raw}
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if m := objectURLRe.FindStringSubmatch(raw); m != nil {
			return Classification{Kind: KindFullObjectURL, ExtractedPath: m[1]}
		}
		return Classification{Kind: KindUnknown}
	}

	if strings.Contains(raw, ".") && !strings.Contains(raw, "/") {
		return Classification{Kind: KindBareFilename, ExtractedPath: raw}
	}

	return Classification{Kind: KindUnknown}
}

// SuggestedPath returns the canonical-path form of the classification:
// the extracted path with the default prefix applied when absent.
// Empty for unclassifiable references.
func (c Classification) SuggestedPath() string {
	if c.ExtractedPath == "" {
		return ""
	}
	for _, p := range knownPrefixes {
		if strings.HasPrefix(c.ExtractedPath, p) {
			return c.ExtractedPath
		}
	}
	return DefaultPrefix + "/" + c.ExtractedPath
}

// CleanReference trims whitespace and strips one pair of surrounding quotes.
func CleanReference(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			raw = raw[1 : len(raw)-1]
		}
	}
	return raw
}
