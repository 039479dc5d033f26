package auth

import (
	"errors"
	"time"

	appcfg "github.com/solsticehq/solstice-api/internal/config"
	"github.com/solsticehq/solstice-api/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for any failed login attempt. The reason is
// deliberately not distinguished.
var ErrBadCredentials = errors.New("invalid credentials")

const tokenTTL = 7 * 24 * time.Hour

// Service authenticates the site owner. Single-user: credentials come from
// config, not a user table.
type Service struct {
	owner appcfg.OwnerConfig
}

func NewService(owner appcfg.OwnerConfig) *Service {
	return &Service{owner: owner}
}

// Login checks the password against the configured bcrypt hash and returns
// a signed token.
func (s *Service) Login(password string) (string, error) {
	if s.owner.PasswordHash == "" {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.owner.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	token, err := jwt.Sign(s.owner.Email, tokenTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}
