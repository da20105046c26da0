package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/hasbyte1/go-credentials/config"
	"github.com/hasbyte1/go-credentials/credential"
	"github.com/hasbyte1/go-credentials/hashing"
)

// Exit codes.  Only a wrong password or a missing/duplicate identity exits
// with exitMismatch.
const (
	exitMismatch = 1
	exitConfig   = 2
	exitInternal = 3
)

type repositoryOpener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (credential.Repository, func(), error)

func identityFlag(required bool) cli.Flag {
	//nolint:exhaustruct
	return &cli.StringFlag{
		Name:     "identity",
		Aliases:  []string{"i"},
		Usage:    "identity the password belongs to, used as salt",
		Required: required,
	}
}

func passwordFlag() cli.Flag {
	//nolint:exhaustruct
	return &cli.StringFlag{
		Name:     "password",
		Aliases:  []string{"p"},
		Usage:    "plaintext password",
		EnvVars:  []string{"CREDENTIALS_PASSWORD"},
		Required: true,
	}
}

func algorithmFlag() cli.Flag {
	//nolint:exhaustruct
	return &cli.StringFlag{
		Name:    "algorithm",
		Aliases: []string{"a"},
		Usage:   "algorithm as NAME[/MODE], MODE one of plain, salted, legacy, legacy-salted",
		Value:   credential.DefaultPreferredAlgorithm.String(),
	}
}

func newApp(stdout, stderr io.Writer, open repositoryOpener) *cli.App {
	cmd := &commands{open: open}

	//nolint:exhaustruct
	return &cli.App{
		Name:      "credentials",
		Usage:     "digest, verify and migrate password credentials",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "load environment from `FILE` (default .env when present)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "algorithms",
				Usage:  "list supported digest algorithms",
				Action: cmd.algorithms,
			},
			{
				Name:   "digest",
				Usage:  "print the stored-digest string of a password",
				Flags:  []cli.Flag{identityFlag(false), passwordFlag(), algorithmFlag()},
				Action: cmd.digest,
			},
			{
				Name:  "verify",
				Usage: "check a password against a stored digest",
				Flags: []cli.Flag{
					identityFlag(false), passwordFlag(), algorithmFlag(),
					&cli.StringFlag{Name: "digest", Aliases: []string{"d"}, Usage: "stored digest", Required: true},
				},
				Action: cmd.verify,
			},
			{
				Name:   "register",
				Usage:  "store a new credential",
				Flags:  []cli.Flag{identityFlag(true), passwordFlag()},
				Action: cmd.withService(cmd.register),
			},
			{
				Name:   "login",
				Usage:  "authenticate against the stored credential",
				Flags:  []cli.Flag{identityFlag(true), passwordFlag()},
				Action: cmd.withService(cmd.login),
			},
			{
				Name:   "passwd",
				Usage:  "change a password, migrating it to the preferred algorithm",
				Flags:  []cli.Flag{identityFlag(true), passwordFlag()},
				Action: cmd.withService(cmd.passwd),
			},
			{
				Name:   "stale",
				Usage:  "list identities not yet on the preferred algorithm",
				Action: cmd.withService(cmd.stale),
			},
		},
	}
}

type commands struct {
	open repositoryOpener
}

func (*commands) algorithms(c *cli.Context) error {
	for _, name := range hashing.DefaultRegistry.Names() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func (*commands) digest(c *cli.Context) error {
	alg, err := parseAlgorithm(c.String("algorithm"))
	if err != nil {
		return err
	}

	digest, err := hashing.Digest(c.String("password"), alg, c.String("identity"))
	if err != nil {
		return cli.Exit(err, exitStatus(err))
	}

	fmt.Fprintln(c.App.Writer, digest)

	return nil
}

func (*commands) verify(c *cli.Context) error {
	alg, err := parseAlgorithm(c.String("algorithm"))
	if err != nil {
		return err
	}

	cred := credential.Restore(credential.Username(c.String("identity")), c.String("digest"), alg, alg)

	ok, err := cred.Verify(c.String("password"))
	if err != nil {
		return cli.Exit(err, exitStatus(err))
	}

	return report(c, ok)
}

func (cmd *commands) withService(fn func(*cli.Context, *credential.Service) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.Context, c.StringSlice("env-file")...)
		if err != nil {
			return cli.Exit(err, exitConfig)
		}

		preferred, err := cfg.Algorithm()
		if err != nil {
			return cli.Exit(err, exitConfig)
		}

		logger := cfg.NewLogger(c.App.ErrWriter)

		repo, closeRepo, err := cmd.open(c.Context, cfg, logger)
		if err != nil {
			return cli.Exit(err, exitConfig)
		}
		defer closeRepo()

		svc := credential.NewService(repo, credential.NewConfig(
			credential.WithLogger(logger),
			credential.WithPreferredAlgorithm(preferred),
		))

		return exitError(fn(c, svc))
	}
}

// exitError gives err an exit code unless it already carries one.  Errors
// that come from bad configuration or stored data exit with exitConfig; the
// rest, such as store I/O, with exitInternal.
func exitError(err error) error {
	if err == nil {
		return nil
	}

	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return err
	}

	return cli.Exit(err, exitStatus(err))
}

func exitStatus(err error) int {
	switch {
	case errors.Is(err, hashing.ErrUnsupportedAlgorithm),
		errors.Is(err, hashing.ErrInvalidAlgorithm),
		errors.Is(err, credential.ErrInvalidRecord):
		return exitConfig
	default:
		return exitInternal
	}
}

func (*commands) register(c *cli.Context, svc *credential.Service) error {
	id := credential.Username(c.String("identity"))

	if err := svc.Register(c.Context, id, c.String("password")); err != nil {
		if errors.Is(err, credential.ErrAlreadyExists) {
			return cli.Exit(fmt.Sprintf("%s: already registered", id), exitMismatch)
		}
		return err
	}

	fmt.Fprintf(c.App.Writer, "registered %s (%s)\n", id, svc.PreferredAlgorithm())

	return nil
}

func (*commands) login(c *cli.Context, svc *credential.Service) error {
	ok, err := svc.Authenticate(c.Context, credential.Username(c.String("identity")), c.String("password"))
	if err != nil {
		return err
	}

	return report(c, ok)
}

func (*commands) passwd(c *cli.Context, svc *credential.Service) error {
	id := credential.Username(c.String("identity"))

	if err := svc.ChangePassword(c.Context, id, c.String("password")); err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return cli.Exit(fmt.Sprintf("%s: not registered", id), exitMismatch)
		}
		return err
	}

	fmt.Fprintf(c.App.Writer, "changed password of %s (%s)\n", id, svc.PreferredAlgorithm())

	return nil
}

func (*commands) stale(c *cli.Context, svc *credential.Service) error {
	identities, err := svc.Stale(c.Context)
	if err != nil {
		return err
	}

	for _, id := range identities {
		fmt.Fprintln(c.App.Writer, id)
	}

	return nil
}

// parseAlgorithm rejects unknown and unsupported algorithms before any
// digest is computed, so a bad flag is never reported as a mismatch.
func parseAlgorithm(s string) (hashing.Algorithm, error) {
	alg, err := hashing.ParseAlgorithm(s)
	if err != nil {
		return hashing.Algorithm{}, cli.Exit(err, exitConfig)
	}
	if err := hashing.DefaultRegistry.Validate(alg); err != nil {
		return hashing.Algorithm{}, cli.Exit(err, exitConfig)
	}
	return alg, nil
}

func report(c *cli.Context, ok bool) error {
	if !ok {
		return cli.Exit("mismatch", exitMismatch)
	}
	fmt.Fprintln(c.App.Writer, "match")
	return nil
}
