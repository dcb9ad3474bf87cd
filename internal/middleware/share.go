package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type shareCtxKey int

const shareKey shareCtxKey = 3

const DefaultShareTTL = 7 * 24 * time.Hour

// ShareClaims identifies the session a share link points at.
type ShareClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// ShareSigner issues and checks share-link tokens.
type ShareSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewShareSigner(secret string, ttl time.Duration) *ShareSigner {
	if secret == "" {
		secret = "survey-dev-secret"
	}
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	return &ShareSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token for sessionID and its expiry.
func (s *ShareSigner) Sign(sessionID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := ShareClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	return signed, exp, err
}

// Parse validates tok and returns its claims.
func (s *ShareSigner) Parse(tok string) (*ShareClaims, error) {
	t, err := jwt.ParseWithClaims(tok, &ShareClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*ShareClaims); ok && t.Valid && c.SessionID != "" {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// RequireShareToken rejects requests whose {token} path variable does not
// verify, and puts the shared session id in the context otherwise.
func RequireShareToken(signer *ShareSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := signer.Parse(mux.Vars(r)["token"])
			if err != nil {
				http.Error(w, "invalid share link", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), shareKey, c.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SharedSessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(shareKey).(string)
	return id, ok && id != ""
}
