package hashing_test

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log"

	"github.com/hasbyte1/go-credentials/hashing"
)

// Example_digest computes the stored form of a salted MD5 digest.
func Example_digest() {
	alg := hashing.MustParseAlgorithm("MD5/salted")

	stored, err := hashing.Digest("hunter2", alg, "alice")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(stored)
	// Output: u23i+geJLzSw4fYt+I8zhA==
}

// Example_parseAlgorithm shows the external form used in configuration and
// storage.
func Example_parseAlgorithm() {
	alg, err := hashing.ParseAlgorithm("SHA-512/legacy-salted")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(alg.Name(), alg.Salted(), alg.Legacy())
	fmt.Println(alg)
	// Output:
	// SHA-512 true true
	// SHA-512/legacy-salted
}

// Example_customRegistry registers an in-house name for a digest function
// without touching the package default.
func Example_customRegistry() {
	r := hashing.NewRegistry()
	if err := r.Register("APP-SHA256", sha256.New); err != nil {
		log.Fatal(err)
	}

	_, err := r.Digest("pw", hashing.MustParseAlgorithm("MD5/salted"), "alice")
	fmt.Println(errors.Is(err, hashing.ErrUnsupportedAlgorithm))
	fmt.Println(r.Names())
	// Output:
	// true
	// [APP-SHA256]
}

// Example_validateAtStartup surfaces a bad configuration before any
// password is checked.
func Example_validateAtStartup() {
	preferred := hashing.MustParseAlgorithm("SHA-3-256/salted")

	if err := hashing.DefaultRegistry.Validate(preferred); err != nil {
		fmt.Println("configuration error:", err)
	}
	// Output: configuration error: hashing: unsupported digest algorithm: "SHA-3-256"
}
