package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/courtamos/tinyapp/internal/platform/config"
)

const issuer = "tinyapp"

// Claims is the whole session: the id of the signed-in user.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// SessionManager keeps the session in a client-held cookie whose value is an
// HS256-signed token. There is no server-side session table and no expiry.
type SessionManager struct {
	cookieName string
	secret     []byte
	secure     bool
}

func NewSessionManager(cfg config.SessionConfig) *SessionManager {
	return &SessionManager{
		cookieName: cfg.CookieName,
		secret:     []byte(cfg.Secret),
		secure:     cfg.Secure,
	}
}

// GenerateSecret returns a random hex key suitable for session.secret.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *SessionManager) Sign(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Issue starts a session for userID.
func (s *SessionManager) Issue(w http.ResponseWriter, userID string) error {
	value, err := s.Sign(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Resolve returns the user id carried by the request's session cookie. A
// missing, tampered or foreign-signed cookie is anonymous.
func (s *SessionManager) Resolve(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims, err := s.Verify(cookie.Value)
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}
