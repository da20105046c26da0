// Command credentials digests, verifies and manages stored password
// credentials.
//
// The stateless commands (algorithms, digest, verify) work on their flags
// alone and are meant for checking historical digests.  The store commands
// (register, login, passwd, stale) use the backend configured through the
// CREDENTIALS_* environment; see package config.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	app := newApp(os.Stdout, os.Stderr, openRepository)

	// Exit errors terminate inside RunContext; what reaches here is a usage
	// error such as a missing required flag.
	if err := app.RunContext(ctx, os.Args); err != nil {
		cancel()
		log.Println(err)
		os.Exit(exitConfig)
	}

	cancel()
}
