package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	tokenString, expiresAt, err := svc.GenerateAccessToken(42, RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", claims["type"])

	principal, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(42), principal.UserID)
	assert.True(t, principal.IsAdmin())
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	tokenString, _, err := NewJWTService("one").GenerateAccessToken(1, RoleStaff, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("two").JWTAuth().Decode(tokenString)
	assert.Error(t, err)
}

func TestPrincipalFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		want    Principal
		wantErr bool
	}{
		{"string id", map[string]interface{}{"user_id": "7", "role": "staff"}, Principal{UserID: 7, Role: RoleStaff}, false},
		{"numeric id", map[string]interface{}{"user_id": float64(9), "role": "admin"}, Principal{UserID: 9, Role: RoleAdmin}, false},
		{"default role", map[string]interface{}{"user_id": "3"}, Principal{UserID: 3, Role: RoleStaff}, false},
		{"missing id", map[string]interface{}{"role": "admin"}, Principal{}, true},
		{"bad id", map[string]interface{}{"user_id": "abc"}, Principal{}, true},
		{"zero id", map[string]interface{}{"user_id": "0"}, Principal{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrincipalFromClaims(tt.claims)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrincipal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
