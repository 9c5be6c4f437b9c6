package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", digest)

	assert.True(t, h.Verify("pw1", digest))
	assert.False(t, h.Verify("pw2", digest))
	assert.False(t, h.Verify("", digest))
	assert.False(t, h.Verify("pw1", "not-a-bcrypt-digest"))

	other, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "salt must differ between hashes")
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 15*time.Minute, nil)

	for _, id := range []int64{1, 42, 1 << 40} {
		token, err := m.Issue(id)
		require.NoError(t, err)

		got, err := m.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewTokenManager("secret", 15*time.Minute, c.now)

	token, err := m.Issue(7)
	require.NoError(t, err)

	c.t = c.t.Add(14 * time.Minute)
	_, err = m.Verify(token)
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Minute)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("other-secret", time.Minute, nil).Issue(7)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Minute, nil).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("secret", time.Minute, nil).Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Minute, nil).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ClaimProblems(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, nil)
	sign := func(c jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))

	_, err := m.Verify(sign(jwt.RegisteredClaims{Subject: "7"}))
	assert.ErrorIs(t, err, ErrInvalidToken, "missing exp")

	_, err = m.Verify(sign(jwt.RegisteredClaims{ExpiresAt: exp}))
	assert.ErrorIs(t, err, ErrInvalidToken, "missing sub")

	_, err = m.Verify(sign(jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}))
	assert.ErrorIs(t, err, ErrMalformedSubject)

	_, err = m.Verify(sign(jwt.RegisteredClaims{Subject: "-3", ExpiresAt: exp}))
	assert.ErrorIs(t, err, ErrMalformedSubject)
}
