package imageurl

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Strategy is one of the URL forms the cascade can hand to a consumer.
type Strategy int

const (
	// StrategySigned is a time-limited pre-authorized URL issued by the
	// storage service. Works regardless of bucket ACL configuration.
	StrategySigned Strategy = iota
	// StrategyDirectDownload is the public URL with a download marker and
	// cache-busting parameter appended.
	StrategyDirectDownload
	// StrategyPublic is the standard public object URL.
	StrategyPublic
	// StrategyS3Style addresses the object without the public marker
	// segment, a shape that historically bypassed a bucket ACL
	// misconfiguration.
	StrategyS3Style
)

// String returns the strategy name used in logs and fixer reports.
func (s Strategy) String() string {
	switch s {
	case StrategySigned:
		return "signed"
	case StrategyDirectDownload:
		return "direct-download"
	case StrategyPublic:
		return "public"
	case StrategyS3Style:
		return "s3-style"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Synthesizer builds candidate URLs for a canonical storage path.
// All forms derive from the same path; only signing needs the network,
// which is the Resolver's job, not the Synthesizer's.
type Synthesizer struct {
	baseURL string
	bucket  string
	now     func() time.Time
}

// NewSynthesizer creates a Synthesizer for the given storage base URL
// (e.g. https://x.supabase.co) and bucket.
func NewSynthesizer(baseURL, bucket string) *Synthesizer {
	return &Synthesizer{baseURL: baseURL, bucket: bucket, now: time.Now}
}

// PublicURL returns the standard public object URL for path.
func (s *Synthesizer) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

// DirectDownloadURL returns the public URL with a download marker and a
// cache-busting timestamp. The storage CDN caches "view" and "download"
// dispositions separately, so this defeats a stale cached view response.
func (s *Synthesizer) DirectDownloadURL(path string) string {
	u, err := url.Parse(s.PublicURL(path))
	if err != nil {
		return s.PublicURL(path)
	}
	q := u.Query()
	q.Set("download", "")
	q.Set("cb", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// S3StyleURL returns the object URL without the public marker segment.
func (s *Synthesizer) S3StyleURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)
}

// Synthesize returns the URL for path under the given client-side strategy.
// StrategySigned has no client-side form and yields the public URL so the
// caller always gets something renderable.
func (s *Synthesizer) Synthesize(path string, strategy Strategy) string {
	switch strategy {
	case StrategyDirectDownload:
		return s.DirectDownloadURL(path)
	case StrategyS3Style:
		return s.S3StyleURL(path)
	default:
		return s.PublicURL(path)
	}
}
