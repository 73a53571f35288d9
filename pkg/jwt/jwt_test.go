package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ValidateAccessToken(t *testing.T) {
	manager := NewManager("secret")

	access, err := manager.Sign(TokenTypeAccess, "user-1", "customer", time.Hour)
	require.NoError(t, err)
	refresh, err := manager.Sign(TokenTypeRefresh, "user-1", "", time.Hour)
	require.NoError(t, err)
	expired, err := manager.Sign(TokenTypeAccess, "user-1", "customer", -time.Hour)
	require.NoError(t, err)
	foreign, err := NewManager("other").Sign(TokenTypeAccess, "user-1", "customer", time.Hour)
	require.NoError(t, err)
	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "user-1", Type: TokenTypeAccess}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid access token", token: access},
		{name: "refresh token", token: refresh, wantErr: true},
		{name: "expired", token: expired, wantErr: true},
		{name: "foreign secret", token: foreign, wantErr: true},
		{name: "unsigned", token: none, wantErr: true},
		{name: "garbage", token: "not.a.token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := manager.ValidateAccessToken(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.UserID)
			assert.Equal(t, "customer", claims.Role)
		})
	}
}

func TestManager_WrongTokenType(t *testing.T) {
	manager := NewManager("secret")
	refresh, err := manager.Sign(TokenTypeRefresh, "user-1", "", time.Hour)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}
