package hashing_test

import (
	"errors"
	"testing"

	"github.com/hasbyte1/go-credentials/hashing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Known vectors
// ──────────────────────────────────────────────────────────────────────────────

// The vectors below are base64(DIGEST(latin1(input))) computed independently
// of this package.
func TestDigest_KnownVectors(t *testing.T) {
	tests := []struct {
		alg      string
		password string
		identity string
		want     string
	}{
		{"MD5/salted", "hunter2", "alice", "u23i+geJLzSw4fYt+I8zhA=="},
		{"MD5/plain", "hunter2", "alice", "KrljkMfb40Od500MmwsXZw=="},
		{"SHA-1/salted", "hunter2", "alice", "kiPxLGHDJfqoWLjiXji6lUulXa8="},
		{"SHA-1", "hunter2", "alice", "87u9ZqY9S/F0eUBXjsPQEDUw4h0="},
		{"SHA-224/salted", "hunter2", "alice", "An+xDT7KVM1OWizgUFLgflZR82Ygsk8EJSxiSw=="},
		{"SHA-256/salted", "hunter2", "alice", "RR50KdPoNO0Iqv7LfwE2FOyRWQPQLReDg5YxA8n+D7U="},
		{"SHA-384/salted", "hunter2", "alice", "gInc+L05Sb0B18o1Iz0VS5rW2eBJpHG37ctOEBO6sULPw05xNVqDFAGQqVHzkAqn"},
		{"SHA-512/salted", "hunter2", "alice", "/7FN/IbQ9WwjKgbr0AneE0S0vqR76ryD/X0D8dM7qGdDlAZPcTqK2FB0wCUz5H5amR9YfKHG5ZBjOEv2RZwRlw=="},
		{"SHA-512/256/salted", "hunter2", "alice", "zhcm4rpeZhCC53C5AnQrFz+d2w6YQclyY7LVxN+7+9g="},
		{"SHA3-256/salted", "hunter2", "alice", "zcBUMccnYhchcJfUxqJanMe4gm7FQ8Xm3Kp63kvfh7c="},
		{"SHA3-512/salted", "hunter2", "alice", "q+ggG5/02FfBb9v0Oo0InsNoHPZac6e22c7Uv4bB3xIAw6tDC/tPVyjam9K+VcCXsI+3TxceBcC9q25GLbK8/w=="},
		{"BLAKE2B-256/salted", "hunter2", "alice", "G+Sp0dAca/izxY1XcC3TpSYh1Zd483nOCBvK1Yv+/2Y="},
		{"BLAKE2B-512/salted", "hunter2", "alice", "o1byImb5hZ8Nkf4pyKJIF1kDijdbJk/pRAHV+KfiOyvA9DNYFjdor/CkCp3z8fZzJc73LGZ7ynK1VcJnRMgTlA=="},
		{"SHA-256/salted", "", "alice", "K9gGyX8OAK8aH8Myj6djqSaXI8jbj6xPk69x2xhtbpA="},
		{"SHA-256", "", "alice", "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU="},
	}
	for _, tt := range tests {
		t.Run(tt.alg+"/"+tt.password, func(t *testing.T) {
			got, err := hashing.Digest(tt.password, hashing.MustParseAlgorithm(tt.alg), tt.identity)
			if err != nil {
				t.Fatalf("Digest: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Byte mapping
// ──────────────────────────────────────────────────────────────────────────────

func TestDigest_Latin1Characters(t *testing.T) {
	// "alicepässwörd" is 616c69636570e4737377f67264 in ISO-8859-1.
	got, err := hashing.Digest("pässwörd", hashing.MustParseAlgorithm("MD5/salted"), "alice")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if got != "0ljXalaoOlYOYxRf+UyDqw==" {
		t.Errorf("got %q", got)
	}
}

func TestDigest_UnmappableBecomesQuestionMark(t *testing.T) {
	alg := hashing.MustParseAlgorithm("MD5/salted")
	euro, err := hashing.Digest("€uro", alg, "alice")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	question, _ := hashing.Digest("?uro", alg, "alice")
	if euro != question || euro != "jViaoFL6tIHTc3QaLmBjHQ==" {
		t.Errorf("euro=%q question=%q", euro, question)
	}
}

func TestDigest_InvalidUTF8BecomesQuestionMark(t *testing.T) {
	alg := hashing.MustParseAlgorithm("SHA-256")
	bad, err := hashing.Digest("\xffuro", alg, "")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	question, _ := hashing.Digest("?uro", alg, "")
	if bad != question {
		t.Errorf("invalid UTF-8 should map to '?': %q vs %q", bad, question)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Properties
// ──────────────────────────────────────────────────────────────────────────────

func TestDigest_Deterministic(t *testing.T) {
	alg := hashing.MustParseAlgorithm("SHA-512/salted")
	a, _ := hashing.Digest("same", alg, "bob")
	b, _ := hashing.Digest("same", alg, "bob")
	if a != b {
		t.Errorf("digest not deterministic: %q != %q", a, b)
	}
}

func TestDigest_SaltedDependsOnIdentity(t *testing.T) {
	alg := hashing.MustParseAlgorithm("MD5/salted")
	alice, _ := hashing.Digest("hunter2", alg, "alice")
	bob, _ := hashing.Digest("hunter2", alg, "bob")
	if alice == bob {
		t.Error("salted digests must differ across identities")
	}
	if bob != "p0tHAuEybS6AwaiC5qexuw==" {
		t.Errorf("bob digest = %q", bob)
	}
}

func TestDigest_UnsaltedIgnoresIdentity(t *testing.T) {
	alg := hashing.MustParseAlgorithm("SHA-1")
	a, _ := hashing.Digest("secret", alg, "alice")
	b, _ := hashing.Digest("secret", alg, "bob")
	if a != b {
		t.Error("unsalted digests must not depend on identity")
	}
}

func TestDigest_LegacyFlagHasNoEffect(t *testing.T) {
	for _, pair := range [][2]string{
		{"MD5/salted", "MD5/legacy-salted"},
		{"SHA-1/plain", "SHA-1/legacy"},
		{"SHA-512/salted", "SHA-512/legacy-salted"},
	} {
		a, _ := hashing.Digest("pw", hashing.MustParseAlgorithm(pair[0]), "id")
		b, _ := hashing.Digest("pw", hashing.MustParseAlgorithm(pair[1]), "id")
		if a != b {
			t.Errorf("%s and %s should digest identically", pair[0], pair[1])
		}
	}
}

func TestDigest_NoLineBreaks(t *testing.T) {
	got, _ := hashing.Digest("pw", hashing.MustParseAlgorithm("BLAKE2B-512"), "")
	for _, c := range got {
		if c == '\r' || c == '\n' {
			t.Fatalf("digest contains a line break: %q", got)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Errors
// ──────────────────────────────────────────────────────────────────────────────

func TestDigest_UnsupportedAlgorithm(t *testing.T) {
	_, err := hashing.Digest("pw", hashing.MustParseAlgorithm("WHIRLPOOL/salted"), "id")
	if !errors.Is(err, hashing.ErrUnsupportedAlgorithm) {
		t.Errorf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

func TestDigest_ZeroAlgorithm(t *testing.T) {
	var zero hashing.Algorithm
	_, err := hashing.Digest("pw", zero, "id")
	if !errors.Is(err, hashing.ErrUnsupportedAlgorithm) {
		t.Errorf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}
