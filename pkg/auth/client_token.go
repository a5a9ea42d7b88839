package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid client token")

// ClientClaims identifies a browser. It carries no user identity; the session
// store maps the client id to a user.
type ClientClaims struct {
	jwt.RegisteredClaims
	ClientID string `json:"cid"`
}

// ClientTokens signs and verifies HS256 client tokens.
type ClientTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewClientTokens(secret string, ttl time.Duration) *ClientTokens {
	return &ClientTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *ClientTokens) TTL() time.Duration {
	return t.ttl
}

// Issue mints a new client id and its signed token.
func (t *ClientTokens) Issue() (clientID, token string, err error) {
	clientID = uuid.NewString()
	token, err = t.Sign(clientID)
	return clientID, token, err
}

func (t *ClientTokens) Sign(clientID string) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		ClientID: clientID,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	return signed, nil
}

// Parse returns the client id of a valid token.
func (t *ClientTokens) Parse(tokenString string) (string, error) {
	claims := &ClientClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.ClientID == "" {
		return "", ErrInvalidToken
	}
	return claims.ClientID, nil
}
