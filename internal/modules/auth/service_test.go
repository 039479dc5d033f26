package auth

import (
	"testing"

	appcfg "github.com/solsticehq/solstice-api/internal/config"
	"github.com/solsticehq/solstice-api/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(appcfg.OwnerConfig{
		Email:        "owner@solstice.example",
		PasswordHash: string(hash),
	})
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := testService(t, "hunter2")

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@solstice.example", claims.Subject)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := testService(t, "hunter2")

	_, err := svc.Login("wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginRejectsMissingHash(t *testing.T) {
	svc := NewService(appcfg.OwnerConfig{Email: "owner@solstice.example"})

	_, err := svc.Login("anything")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
