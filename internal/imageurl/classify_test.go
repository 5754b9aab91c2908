package imageurl

import "testing"

func TestClassify_CanonicalPath(t *testing.T) {
	for _, raw := range []string{
		"blog/e0aff22f-0408-4e36-81ed-459bec630c80.jpeg",
		"blog/nested/dir/foo.png",
		"post-images/header.webp",
	} {
		c := Classify(raw)
		if c.Kind != KindCanonicalPath {
			t.Errorf("Classify(%q).Kind = %s, want canonical-path", raw, c.Kind)
		}
		if c.ExtractedPath != raw {
			t.Errorf("Classify(%q).ExtractedPath = %q, want %q", raw, c.ExtractedPath, raw)
		}
		if c.SuggestedPath() != raw {
			t.Errorf("Classify(%q).SuggestedPath() = %q, want unchanged", raw, c.SuggestedPath())
		}
	}
}

func TestClassify_UUIDFilename(t *testing.T) {
	raw := "e0aff22f-0408-4e36-81ed-459bec630c80.jpeg"
	c := Classify(raw)
	if c.Kind != KindUUIDFilename {
		t.Fatalf("Kind = %s, want uuid-filename", c.Kind)
	}
	if c.ExtractedPath != raw {
		t.Errorf("ExtractedPath = %q, want %q", c.ExtractedPath, raw)
	}
	if got, want := c.SuggestedPath(), "blog/"+raw; got != want {
		t.Errorf("SuggestedPath() = %q, want %q", got, want)
	}
}

func TestClassify_FullObjectURL(t *testing.T) {
	tests := []struct {
		raw      string
		wantPath string
	}{
		{
			raw:      "https://x.supabase.co/storage/v1/object/public/blog-images/blog/foo.png?token=abc",
			wantPath: "blog/foo.png",
		},
		{
			raw:      "https://x.supabase.co/storage/v1/object/sign/blog-images/blog/bar.jpg?token=xyz",
			wantPath: "blog/bar.jpg",
		},
		{
			// S3-style form without the public marker segment
			raw:      "https://x.supabase.co/storage/v1/object/blog-images/blog/baz.webp",
			wantPath: "blog/baz.webp",
		},
	}

	for _, tt := range tests {
		c := Classify(tt.raw)
		if c.Kind != KindFullObjectURL {
			t.Errorf("Classify(%q).Kind = %s, want full-object-url", tt.raw, c.Kind)
		}
		if c.ExtractedPath != tt.wantPath {
			t.Errorf("Classify(%q).ExtractedPath = %q, want %q", tt.raw, c.ExtractedPath, tt.wantPath)
		}
	}
}

func TestClassify_FullObjectURL_AlreadyCanonicalSuggestion(t *testing.T) {
	c := Classify("https://x.supabase.co/storage/v1/object/public/blog-images/blog/foo.png?token=abc")
	if got, want := c.SuggestedPath(), "blog/foo.png"; got != want {
		t.Errorf("SuggestedPath() = %q, want %q", got, want)
	}
}

func TestClassify_BareFilename(t *testing.T) {
	c := Classify("header-photo.jpg")
	if c.Kind != KindBareFilename {
		t.Fatalf("Kind = %s, want bare-filename", c.Kind)
	}
	if got, want := c.SuggestedPath(), "blog/header-photo.jpg"; got != want {
		t.Errorf("SuggestedPath() = %q, want %q", got, want)
	}
}

func TestClassify_Unknown(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://example.com/some/image.png",
		"not-a-path-no-extension",
	} {
		c := Classify(raw)
		if c.Kind != KindUnknown {
			t.Errorf("Classify(%q).Kind = %s, want unknown", raw, c.Kind)
		}
		if c.ExtractedPath != "" {
			t.Errorf("Classify(%q).ExtractedPath = %q, want empty", raw, c.ExtractedPath)
		}
		if c.SuggestedPath() != "" {
			t.Errorf("Classify(%q).SuggestedPath() = %q, want empty", raw, c.SuggestedPath())
		}
	}
}

func TestClassify_StripsSurroundingQuotes(t *testing.T) {
	// A double-encoding bug at the write path stored some values quoted.
	c := Classify(`"blog/foo.jpg"`)
	if c.Kind != KindCanonicalPath {
		t.Fatalf("Kind = %s, want canonical-path", c.Kind)
	}
	if c.ExtractedPath != "blog/foo.jpg" {
		t.Errorf("ExtractedPath = %q, want quotes stripped", c.ExtractedPath)
	}

	c = Classify("'post-images/bar.png'")
	if c.ExtractedPath != "post-images/bar.png" {
		t.Errorf("ExtractedPath = %q, want single quotes stripped", c.ExtractedPath)
	}
}

func TestClassify_PrecedenceCanonicalBeforeURL(t *testing.T) {
	// A canonical path never reaches the URL matcher even if it contains
	// URL-ish substrings.
	c := Classify("blog/storage/v1/object/public/x/y.png")
	if c.Kind != KindCanonicalPath {
		t.Errorf("Kind = %s, want canonical-path to win", c.Kind)
	}
}

func TestCleanReference(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  blog/a.png  ", "blog/a.png"},
		{`"blog/a.png"`, "blog/a.png"},
		{"'blog/a.png'", "blog/a.png"},
		{`"unbalanced`, `"unbalanced`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanReference(tt.in); got != tt.want {
			t.Errorf("CleanReference(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
