package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyIssuedToken(t *testing.T) {
	v := NewVerifier("secret", "wordstack", "authenticated")

	token, err := Issue("secret", "user-1", "wordstack", "authenticated", time.Minute)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier("secret", "wordstack", "authenticated")

	_, err := v.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	cases := map[string]func() (string, error){
		"wrong secret":   func() (string, error) { return Issue("other", "u", "wordstack", "authenticated", time.Minute) },
		"expired":        func() (string, error) { return Issue("secret", "u", "wordstack", "authenticated", -time.Minute) },
		"wrong audience": func() (string, error) { return Issue("secret", "u", "wordstack", "anon", time.Minute) },
		"wrong issuer":   func() (string, error) { return Issue("secret", "u", "elsewhere", "authenticated", time.Minute) },
		"no subject":     func() (string, error) { return Issue("secret", "", "wordstack", "authenticated", time.Minute) },
	}
	for name, issue := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := issue()
			require.NoError(t, err)
			_, err = v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = v.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
