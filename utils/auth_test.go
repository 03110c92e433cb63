package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	token, err := issuer.GenerateJWT("u1", "a@x.mk", PurposeSession)
	require.NoError(t, err)

	claims, err := issuer.ParseJWT(token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@x.mk", claims.Email)
}

func TestTokenPurposeMismatch(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	token, err := issuer.GenerateJWT("u1", "a@x.mk", PurposeReset)
	require.NoError(t, err)

	_, err = issuer.ParseJWT(token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("one").GenerateJWT("u1", "", PurposeSession)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two").ParseJWT(token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("one").ParseJWT("garbage", PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenExpires(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.GenerateJWT("u1", "", PurposeReset)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret").ParseJWT(token, PurposeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}

type recordingMailer struct {
	to, subject, body string
}

func (m *recordingMailer) SendEmail(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestSendPasswordResetEmail(t *testing.T) {
	m := &recordingMailer{}
	require.NoError(t, SendPasswordResetEmail(m, "a@x.mk", "http://localhost/password/reset?token=abc"))
	assert.Equal(t, "a@x.mk", m.to)
	assert.Equal(t, "Reset Your Password", m.subject)
	assert.Contains(t, m.body, "token=abc")
}
