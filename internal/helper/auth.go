package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// LocalsUserKey is where the auth middleware parks the verified claims on the
// fiber context.
const LocalsUserKey = "user"

// ResetTokenTTL bounds the password-reset handshake. Reset links die after a
// day regardless of the session TTL.
const ResetTokenTTL = 24 * time.Hour

// TokenClaims is the payload carried by every token the service issues.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name,omitempty"`
	jwt.RegisteredClaims
}

// Auth signs and verifies tokens and hashes passwords. TokenTTL is the
// default lifetime used when GenerateToken is called with ttl <= 0.
type Auth struct {
	Secret   string
	TokenTTL time.Duration
}

func SetupAuth(secret string, tokenTTL time.Duration) Auth {
	return Auth{
		Secret:   secret,
		TokenTTL: tokenTTL,
	}
}

// GenerateToken signs an HS256 token over claims. ttl <= 0 means the
// configured default.
func (a Auth) GenerateToken(claims TokenClaims, ttl time.Duration) (string, error) {
	if claims.UserID == 0 || claims.Email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}
	if ttl <= 0 {
		ttl = a.TokenTTL
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return signed, nil
}

// VerifyToken parses and validates a token. It accepts both a bare token and
// an "Authorization: Bearer <token>" value. Expired tokens come back as
// ErrTokenExpired; every other failure is ErrTokenInvalid.
func (a Auth) VerifyToken(tokenString string) (*TokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return nil, ErrTokenInvalid
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// HashPassword produces the bcrypt hash stored in place of the password.
func (a Auth) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a candidate password against a stored hash.
func (a Auth) VerifyPassword(plain, hashed string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// GetCurrentUser returns the claims the auth middleware put on the request.
func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (*TokenClaims, error) {
	claims, ok := ctx.Locals(LocalsUserKey).(*TokenClaims)
	if !ok || claims == nil {
		return nil, errors.New("missing auth user in context")
	}
	return claims, nil
}
