package hashing

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Digest computes the stored-digest string for password under alg, using
// identity as the salt when alg is salted.  It delegates to [DefaultRegistry].
func Digest(password string, alg Algorithm, identity string) (string, error) {
	return DefaultRegistry.Digest(password, alg, identity)
}

// Digest computes the stored-digest string for password under alg, using
// salt when alg is salted.
//
// The output is deterministic: equal inputs always produce byte-identical
// strings.  It returns [ErrUnsupportedAlgorithm] when alg's name is not
// registered in r.
func (r *Registry) Digest(password string, alg Algorithm, salt string) (string, error) {
	h, err := r.New(alg.Name())
	if err != nil {
		return "", err
	}

	input, err := encodeLatin1(applySalt(alg, password, salt))
	if err != nil {
		return "", err
	}

	// hash.Hash.Write never returns an error.
	_, _ = h.Write(input)

	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

func applySalt(alg Algorithm, password, salt string) string {
	if alg.Salted() {
		return salt + password
	}
	return password
}

// encodeLatin1 maps s to one byte per character.  Characters outside
// ISO-8859-1, and invalid UTF-8, become '?'.
func encodeLatin1(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == utf8.RuneError || r > 0xFF {
			return '?'
		}
		return r
	}, s)

	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return b, nil
}
