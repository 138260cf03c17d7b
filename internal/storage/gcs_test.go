package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"cv.pdf":                 "cv.pdf",
		"my cv [final].pdf":      "my_cv__final_.pdf",
		"a:b*c?.png":             "a_b_c_.png",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\letter.doc`: "letter.doc",
		"":                       "file",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPaths(t *testing.T) {
	id := uuid.New()
	if got := UserPath(id, "cert #1.pdf"); got != id.String()+"/cert__1.pdf" {
		t.Fatalf("UserPath = %q", got)
	}
	p := UniquePath("Logo.PNG")
	if !strings.HasSuffix(p, ".png") || len(p) != 36+4 {
		t.Fatalf("UniquePath = %q", p)
	}
}

func TestPublicURL(t *testing.T) {
	s := &GCS{bucket: "mc"}
	if got := s.PublicURL(BucketProfiles, "u/a.png"); got != "https://storage.googleapis.com/mc/profiles/u/a.png" {
		t.Fatalf("default = %q", got)
	}
	s.emulatorHost = "http://localhost:4443"
	if got := s.PublicURL(BucketLogos, "x.png"); got != "http://localhost:4443/storage/v1/b/mc/o/logos%2Fx.png?alt=media" {
		t.Fatalf("emulator = %q", got)
	}
	s.publicBaseURL = "https://cdn.example.com"
	if got := s.PublicURL(BucketLogos, "x.png"); got != "https://cdn.example.com/mc/logos/x.png" {
		t.Fatalf("public base = %q", got)
	}
}

func TestValidBucket(t *testing.T) {
	if !ValidBucket(BucketCertificates) || ValidBucket("secrets") {
		t.Fatal("unexpected bucket validity")
	}
}
