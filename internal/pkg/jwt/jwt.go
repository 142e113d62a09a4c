package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var ErrInvalidPrincipal = errors.New("token does not carry a valid principal")

// Principal is the caller identity resolved by the gateway.
type Principal struct {
	UserID int64
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type Service interface {
	// GenerateAccessToken mints a token in the gateway's format. Used by
	// the token command and tests; production tokens come from the gateway.
	GenerateAccessToken(userID int64, role string, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID int64, role string, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"user_id": strconv.FormatInt(userID, 10),
		"role":    role,
		"type":    "access",
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// PrincipalFromClaims reads user_id (string or number) and role.
func PrincipalFromClaims(claims map[string]interface{}) (Principal, error) {
	var userID int64
	switch v := claims["user_id"].(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Principal{}, fmt.Errorf("%w: user_id %q", ErrInvalidPrincipal, v)
		}
		userID = id
	case float64:
		userID = int64(v)
	case int64:
		userID = v
	default:
		return Principal{}, fmt.Errorf("%w: user_id missing", ErrInvalidPrincipal)
	}
	if userID <= 0 {
		return Principal{}, fmt.Errorf("%w: user_id must be positive", ErrInvalidPrincipal)
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleStaff
	}

	return Principal{UserID: userID, Role: role}, nil
}
