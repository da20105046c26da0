package hashing_test

import (
	"errors"
	"testing"

	"github.com/hasbyte1/go-credentials/hashing"
)

// ──────────────────────────────────────────────────────────────────────────────
// ParseAlgorithm
// ──────────────────────────────────────────────────────────────────────────────

func TestParseAlgorithm_Valid(t *testing.T) {
	tests := []struct {
		in     string
		name   string
		salted bool
		legacy bool
	}{
		{"SHA-1", "SHA-1", false, false},
		{"SHA-512/plain", "SHA-512", false, false},
		{"SHA-512/salted", "SHA-512", true, false},
		{"MD5/legacy", "MD5", false, true},
		{"MD5/legacy-salted", "MD5", true, true},
		{"MD5/SALTED", "MD5", true, false},
		{"  SHA-256/salted  ", "SHA-256", true, false},
		{"SHA-512/256", "SHA-512/256", false, false},
		{"SHA-512/256/salted", "SHA-512/256", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := hashing.ParseAlgorithm(tt.in)
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q): %v", tt.in, err)
			}
			if a.Name() != tt.name || a.Salted() != tt.salted || a.Legacy() != tt.legacy {
				t.Errorf("got (%q, salted=%v, legacy=%v), want (%q, %v, %v)",
					a.Name(), a.Salted(), a.Legacy(), tt.name, tt.salted, tt.legacy)
			}
		})
	}
}

func TestParseAlgorithm_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "/salted", "SHA-256/peppered", "SHA-256/"} {
		_, err := hashing.ParseAlgorithm(in)
		if !errors.Is(err, hashing.ErrInvalidAlgorithm) {
			t.Errorf("ParseAlgorithm(%q): expected ErrInvalidAlgorithm, got %v", in, err)
		}
	}
}

func TestParseAlgorithm_DoesNotConsultRegistry(t *testing.T) {
	a, err := hashing.ParseAlgorithm("WHIRLPOOL/salted")
	if err != nil {
		t.Fatalf("ParseAlgorithm: %v", err)
	}
	if a.Name() != "WHIRLPOOL" {
		t.Errorf("name = %q, want WHIRLPOOL", a.Name())
	}
}

func TestMustParseAlgorithm_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid descriptor")
		}
	}()
	hashing.MustParseAlgorithm("MD5/bogus")
}

// ──────────────────────────────────────────────────────────────────────────────
// String / Mode / Equal
// ──────────────────────────────────────────────────────────────────────────────

func TestAlgorithm_StringRoundTrip(t *testing.T) {
	for _, a := range []hashing.Algorithm{
		hashing.NewAlgorithm("SHA-1", false, false),
		hashing.NewAlgorithm("SHA-512", true, false),
		hashing.NewAlgorithm("MD5", false, true),
		hashing.NewAlgorithm("MD5", true, true),
		hashing.NewAlgorithm("SHA-512/256", true, false),
	} {
		back, err := hashing.ParseAlgorithm(a.String())
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", a.String(), err)
		}
		if back != a {
			t.Errorf("round trip of %q gave %q", a, back)
		}
	}
}

func TestAlgorithm_Mode(t *testing.T) {
	cases := map[hashing.Mode]hashing.Algorithm{
		hashing.ModePlain:        hashing.NewAlgorithm("SHA-1", false, false),
		hashing.ModeSalted:       hashing.NewAlgorithm("SHA-1", true, false),
		hashing.ModeLegacy:       hashing.NewAlgorithm("SHA-1", false, true),
		hashing.ModeLegacySalted: hashing.NewAlgorithm("SHA-1", true, true),
	}
	for want, a := range cases {
		if got := a.Mode(); got != want {
			t.Errorf("Mode() = %q, want %q", got, want)
		}
	}
}

func TestAlgorithm_Equal(t *testing.T) {
	a := hashing.NewAlgorithm("sha-256", true, false)
	if !a.Equal(hashing.NewAlgorithm("SHA-256", true, false)) {
		t.Error("names should compare case-insensitively")
	}
	if a.Equal(hashing.NewAlgorithm("SHA-256", false, false)) {
		t.Error("salted and unsalted descriptors must differ")
	}
	if a.Equal(hashing.NewAlgorithm("SHA-256", true, true)) {
		t.Error("legacy flag must take part in equality")
	}
}

func TestAlgorithm_IsZero(t *testing.T) {
	var zero hashing.Algorithm
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if hashing.NewAlgorithm("MD5", false, false).IsZero() {
		t.Error("named algorithm should not report IsZero")
	}
}
