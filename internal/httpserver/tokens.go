package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	errNoToken    = errors.New("missing token")
	errWrongGame  = errors.New("token is for another game")
	errBadSubject = errors.New("token subject is not a game id")
)

// tokens signs and checks host tokens: HS256 JWTs whose subject is the
// game id they may drive.
type tokens struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

func (t *tokens) sign(gameID uuid.UUID) (string, time.Time, error) {
	now := t.clock.Now()
	exp := now.Add(t.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// check validates raw and reports whether it authorises gameID.
// errWrongGame means the token itself is fine.
func (t *tokens) check(raw string, gameID uuid.UUID) error {
	if raw == "" {
		return errNoToken
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return err
	}
	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return errBadSubject
	}
	if sub != gameID {
		return errWrongGame
	}
	return nil
}

// bearer extracts a token from the Authorization header, falling back to
// the "token" query parameter (browsers cannot set headers on websockets).
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

// tokenStatus maps a check error to an HTTP status.
func tokenStatus(err error) (int, string) {
	if errors.Is(err, errWrongGame) {
		return http.StatusForbidden, "forbidden"
	}
	return http.StatusUnauthorized, "unauthorized"
}
