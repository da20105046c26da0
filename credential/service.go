package credential

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hasbyte1/go-credentials/hashing"
)

// DefaultPreferredAlgorithm is the preferred algorithm used when none is
// configured.
//
//nolint:gochecknoglobals
var DefaultPreferredAlgorithm = hashing.NewAlgorithm("SHA-512", true, false)

// Config is the configuration for a [Service].
type Config struct {
	Logger             *slog.Logger
	Digester           Digester
	PreferredAlgorithm hashing.Algorithm
}

func (c *Config) defaults() {
	c.Logger = cmp.Or(c.Logger, slog.Default())
	c.Digester = cmp.Or[Digester](c.Digester, hashing.DefaultRegistry)
	c.PreferredAlgorithm = cmp.Or(c.PreferredAlgorithm, DefaultPreferredAlgorithm)
}

// NewConfig creates a new config.
//
// Unset fields fall back to slog.Default, hashing.DefaultRegistry and
// DefaultPreferredAlgorithm.
func NewConfig(opts ...func(*Config)) *Config {
	//nolint:exhaustruct
	config := Config{}
	for _, opt := range opts {
		opt(&config)
	}

	config.defaults()

	return &config
}

// WithLogger configures the logger.
func WithLogger(logger *slog.Logger) func(*Config) {
	return func(cfg *Config) { cfg.Logger = logger }
}

// WithServiceDigester configures the digester shared by every credential the
// service loads.
func WithServiceDigester(d Digester) func(*Config) {
	return func(cfg *Config) { cfg.Digester = d }
}

// WithPreferredAlgorithm configures the algorithm new digests are produced with.
func WithPreferredAlgorithm(alg hashing.Algorithm) func(*Config) {
	return func(cfg *Config) { cfg.PreferredAlgorithm = alg }
}

// Service runs credential operations against a [Repository] by identity.
type Service struct {
	repo   Repository
	config *Config
}

// NewService creates a service.  A nil config means NewConfig().
func NewService(repo Repository, config *Config) *Service {
	if config == nil {
		config = NewConfig()
	}

	config.defaults()

	return &Service{repo: repo, config: config}
}

// PreferredAlgorithm returns the algorithm new digests are produced with.
func (s *Service) PreferredAlgorithm() hashing.Algorithm {
	return s.config.PreferredAlgorithm
}

// Register stores a new credential for id with password digested under the
// preferred algorithm.
//
// Returns [ErrAlreadyExists] when id already has a credential.
func (s *Service) Register(ctx context.Context, id Identity, password string) error {
	cred := New(id, s.config.PreferredAlgorithm, s.config.PreferredAlgorithm, s.credentialOptions()...)
	if err := cred.ChangePassword(password); err != nil {
		s.config.Logger.ErrorContext(ctx, "failed to digest password",
			slog.String("identity", id.String()), slog.Any("error", err))
		return err
	}

	if err := s.repo.Create(ctx, cred.Record()); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("credential: failed to register %q: %w", id, err)
	}

	s.config.Logger.DebugContext(ctx, "registered credential",
		slog.String("identity", id.String()),
		slog.String("algorithm", s.config.PreferredAlgorithm.String()))

	return nil
}

// Authenticate reports whether password matches the stored credential of id.
//
// An unknown identity and a credential without a password both yield
// (false, nil).  A returned error is never a wrong password.
func (s *Service) Authenticate(ctx context.Context, id Identity, password string) (bool, error) {
	cred, err := s.load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.config.Logger.DebugContext(ctx, "unknown identity", slog.String("identity", id.String()))
			return false, nil
		}
		s.config.Logger.ErrorContext(ctx, "failed to load credential",
			slog.String("identity", id.String()), slog.Any("error", err))
		return false, err
	}

	ok, err := cred.Verify(password)
	if err != nil {
		s.config.Logger.ErrorContext(ctx, "failed to verify password",
			slog.String("identity", id.String()),
			slog.String("algorithm", cred.VerifyAlgorithm().String()),
			slog.Any("error", err))
		return false, err
	}

	if !ok {
		s.config.Logger.DebugContext(ctx, "password mismatch", slog.String("identity", id.String()))
	}

	return ok, nil
}

// ChangePassword replaces the password of id, migrating its credential to
// the preferred algorithm.
//
// Returns [ErrNotFound] when id has no credential.  Nothing is stored when
// the new digest cannot be computed.
func (s *Service) ChangePassword(ctx context.Context, id Identity, newPassword string) error {
	cred, err := s.load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.config.Logger.ErrorContext(ctx, "failed to load credential",
				slog.String("identity", id.String()), slog.Any("error", err))
		}
		return err
	}

	previous := cred.VerifyAlgorithm()

	if err := cred.ChangePassword(newPassword); err != nil {
		s.config.Logger.ErrorContext(ctx, "failed to digest password",
			slog.String("identity", id.String()), slog.Any("error", err))
		return err
	}

	if err := s.repo.Update(ctx, cred.Record()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("credential: failed to store new password of %q: %w", id, err)
	}

	if !previous.Equal(cred.VerifyAlgorithm()) {
		s.config.Logger.InfoContext(ctx, "migrated credential",
			slog.String("identity", id.String()),
			slog.String("from", previous.String()),
			slog.String("to", cred.VerifyAlgorithm().String()))
	}

	return nil
}

// Stale returns the identities whose stored algorithm differs from the
// preferred one.  It only reports; migration happens on password change.
func (s *Service) Stale(ctx context.Context) ([]string, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("credential: failed to list credentials: %w", err)
	}

	var stale []string
	for _, rec := range records {
		alg, err := hashing.ParseAlgorithm(rec.Algorithm)
		if err != nil {
			s.config.Logger.WarnContext(ctx, "unparseable stored algorithm",
				slog.String("identity", rec.Identity), slog.String("algorithm", rec.Algorithm))
			stale = append(stale, rec.Identity)
			continue
		}
		if !alg.Equal(s.config.PreferredAlgorithm) {
			stale = append(stale, rec.Identity)
		}
	}

	return stale, nil
}

// Delete removes the credential of id.
func (s *Service) Delete(ctx context.Context, id Identity) error {
	if err := s.repo.Delete(ctx, id.String()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("credential: failed to delete %q: %w", id, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id Identity) (*Credential, error) {
	rec, err := s.repo.Find(ctx, id.String())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("credential: failed to find %q: %w", id, err)
	}

	// Keep the caller's identity: it may carry more than its string form.
	verify, err := hashing.ParseAlgorithm(rec.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("credential: failed to parse algorithm of %q: %w", id, err)
	}

	return Restore(id, rec.Digest, verify, s.config.PreferredAlgorithm, s.credentialOptions()...), nil
}

func (s *Service) credentialOptions() []Option {
	return []Option{WithDigester(s.config.Digester)}
}
