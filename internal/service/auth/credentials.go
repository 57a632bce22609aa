package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Static account accepted by the credential check.
const (
	staticLogin    = "admin"
	staticPassword = "password"
	staticName     = "Admin"
)

// userNamespace scopes derived user IDs so the same login always maps to the
// same session.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tickprobe/users"))

// Credentials are the values submitted at login.
type Credentials struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// User is the authenticated account.
type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserIDFor returns the stable user ID for a login name.
func UserIDFor(login string) uuid.UUID {
	return uuid.NewSHA1(userNamespace, []byte(login))
}

// CredentialChecker validates credentials.
type CredentialChecker interface {
	// Check returns the user for valid credentials, or ErrInvalidCredentials.
	Check(ctx context.Context, creds Credentials) (User, error)
}

// StaticChecker accepts a single built-in account. The password is held only as
// a bcrypt hash and each check waits a simulated network delay.
type StaticChecker struct {
	hash   []byte
	delay  time.Duration
	logger *slog.Logger
}

var _ CredentialChecker = (*StaticChecker)(nil)

// NewStaticChecker creates a checker with the given simulated latency.
func NewStaticChecker(delay time.Duration, logger *slog.Logger) (*StaticChecker, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(staticPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash static password: %w", err)
	}

	return &StaticChecker{
		hash:   hash,
		delay:  delay,
		logger: logger.With("component", "credential_checker"),
	}, nil
}

// Check waits the configured delay, then compares the credentials against the
// static account. It returns ctx.Err() if ctx ends during the delay.
func (c *StaticChecker) Check(ctx context.Context, creds Credentials) (User, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return User{}, ctx.Err()
		case <-timer.C:
		}
	}

	loginOK := subtle.ConstantTimeCompare([]byte(creds.Login), []byte(staticLogin)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(c.hash, []byte(creds.Password))
	if !loginOK || passwordErr != nil {
		c.logger.Debug("credential check failed", "login", creds.Login)
		return User{}, ErrInvalidCredentials
	}

	return User{
		ID:   UserIDFor(creds.Login),
		Name: staticName,
	}, nil
}
