package password_test

import (
	"hotel/shared/password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectedErr error
	}{
		{name: "valid password", password: "guest-secret-1"},
		{name: "empty password", password: "", expectedErr: password.ErrEmptyPassword},
		{name: "exactly max length", password: strings.Repeat("a", password.MaxLength)},
		{name: "longer than bcrypt accepts", password: strings.Repeat("a", password.MaxLength+1), expectedErr: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := password.Hash(tt.password)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, hashed)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hashed)
			assert.NoError(t, password.Verify(tt.password, hashed))
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("front-desk")
	require.NoError(t, err)

	second, err := password.Hash("front-desk")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hashed, err := password.Hash("front-desk")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
	}{
		{name: "wrong password", password: "back-office", hash: hashed},
		{name: "empty password", password: "", hash: hashed},
		{name: "empty hash", password: "front-desk", hash: ""},
		{name: "malformed hash", password: "front-desk", hash: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, password.Verify(tt.password, tt.hash), password.ErrInvalidPassword)
		})
	}
}
