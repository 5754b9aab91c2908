package imageurl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// SignedURLTTL is the lifetime requested for signed URLs.
const SignedURLTTL = 12 * time.Hour

// maxRenderFailures bounds the reactive fallback transitions for one image.
// Without it, strategies that fail identically would loop forever.
const maxRenderFailures = 3

// ErrUnresolvable is returned when every strategy for a reference has been
// exhausted. It is a sentinel result, not an exceptional condition; callers
// show an "image unavailable" placeholder and stop retrying.
var ErrUnresolvable = errors.New("imageurl: reference unresolvable")

// Signer issues time-limited pre-authorized URLs. Implemented by the
// storage client.
type Signer interface {
	CreateSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// ResolvedURL is an ephemeral, renderable URL for one image reference.
type ResolvedURL struct {
	URL       string
	Strategy  Strategy
	IssuedAt  time.Time
	ExpiresAt time.Time // zero means never expires
}

// Expired reports whether the URL must not be relied on at instant now.
func (r ResolvedURL) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Resolver turns raw stored references into ResolvedURLs. Signed URLs are
// preferred because they work regardless of bucket ACL configuration; the
// synthesized forms are fallbacks ordered by historical success rate.
type Resolver struct {
	signer Signer
	synth  *Synthesizer
	now    func() time.Time
	group  singleflight.Group
	// preferPublic skips the signing attempt and serves plain public URLs
	// (FORCE_UNOPTIMIZED_IMAGES). Only useful when the bucket ACL is known
	// to be correct.
	preferPublic bool
}

// NewResolver は Resolver を生成する（DI: Signer と Synthesizer を注入）
func NewResolver(signer Signer, synth *Synthesizer) *Resolver {
	return &Resolver{signer: signer, synth: synth, now: time.Now}
}

// PreferPublic toggles direct public delivery instead of signed URLs.
func (r *Resolver) PreferPublic(v bool) *Resolver {
	r.preferPublic = v
	return r
}

// Resolve classifies raw and performs the proactive part of the cascade:
// a single signed-URL attempt, falling back to direct-download synthesis
// on signing failure. Unknown shapes pass through as-is. Only an empty
// reference is unresolvable at this stage.
func (r *Resolver) Resolve(ctx context.Context, raw string) (ResolvedURL, error) {
	cleaned := CleanReference(raw)
	if cleaned == "" {
		return ResolvedURL{}, ErrUnresolvable
	}

	class := Classify(cleaned)
	if class.Kind == KindUnknown {
		// Best effort: treat the stored value as an opaque URL.
		return ResolvedURL{URL: cleaned, Strategy: StrategyPublic, IssuedAt: r.now()}, nil
	}

	path := class.SuggestedPath()
	if r.preferPublic {
		return ResolvedURL{URL: r.synth.PublicURL(path), Strategy: StrategyPublic, IssuedAt: r.now()}, nil
	}

	signed, err := r.signedURL(ctx, path)
	if err != nil {
		slog.Warn("signed URL failed, falling back to direct download",
			"raw", cleaned,
			"path", path,
			"error", err,
		)
		return ResolvedURL{
			URL:      r.synth.DirectDownloadURL(path),
			Strategy: StrategyDirectDownload,
			IssuedAt: r.now(),
		}, nil
	}

	issued := r.now()
	return ResolvedURL{
		URL:       signed,
		Strategy:  StrategySigned,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(SignedURLTTL),
	}, nil
}

// signedURL issues a signed URL for path, deduplicating concurrent requests
// for the same path through singleflight.
func (r *Resolver) signedURL(ctx context.Context, path string) (string, error) {
	v, err, _ := r.group.Do(path, func() (any, error) {
		return r.signer.CreateSignedURL(ctx, path, SignedURLTTL)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Cascade tracks the reactive fallback state for a single image. Each
// render-failure signal from the consumer advances to the next strategy:
// SIGNED → DIRECT_DOWNLOAD → PUBLIC → S3_STYLE → unresolvable. Transitions
// past the signed attempt are pure synthesis and cannot themselves fail.
type Cascade struct {
	resolver   *Resolver
	raw        string
	path       string
	current    ResolvedURL
	failures   int
	unresolved bool
}

// NewCascade resolves raw proactively and returns the cascade positioned at
// the first usable strategy.
func (r *Resolver) NewCascade(ctx context.Context, raw string) (*Cascade, error) {
	resolved, err := r.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	class := Classify(raw)
	return &Cascade{
		resolver: r,
		raw:      CleanReference(raw),
		path:     class.SuggestedPath(),
		current:  resolved,
	}, nil
}

// Current returns the URL the consumer should render now.
func (c *Cascade) Current() ResolvedURL {
	return c.current
}

// Unresolved reports whether the cascade has reached its terminal state.
func (c *Cascade) Unresolved() bool {
	return c.unresolved
}

// RenderFailed records that the current URL did not load and advances to
// the next strategy. After maxRenderFailures signals, or once no strategy
// remains, it returns ErrUnresolvable and the cascade stays terminal.
func (c *Cascade) RenderFailed() (ResolvedURL, error) {
	if c.unresolved {
		return ResolvedURL{}, ErrUnresolvable
	}

	c.failures++
	if c.failures > maxRenderFailures || c.path == "" {
		// Unknown-shape passthroughs have nothing to fall back to.
		c.unresolved = true
		return ResolvedURL{}, ErrUnresolvable
	}

	var next Strategy
	switch c.current.Strategy {
	case StrategySigned:
		next = StrategyDirectDownload
	case StrategyDirectDownload:
		next = StrategyPublic
	case StrategyPublic:
		next = StrategyS3Style
	default:
		c.unresolved = true
		return ResolvedURL{}, ErrUnresolvable
	}

	slog.Debug("render failed, advancing cascade",
		"raw", c.raw,
		"failed_strategy", c.current.Strategy.String(),
		"next_strategy", next.String(),
		"failures", c.failures,
	)

	c.current = ResolvedURL{
		URL:      c.resolver.synth.Synthesize(c.path, next),
		Strategy: next,
		IssuedAt: c.resolver.now(),
	}
	return c.current, nil
}
