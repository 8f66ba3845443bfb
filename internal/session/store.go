// Package session persists the authenticated user's credential pair in
// two cookies: the backend token and the user id. The two entries are
// always written and cleared together; no other component mutates them.
package session

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenCookie = "token"
	idCookie    = "id"
)

// Store reads and writes the session cookies under a fixed policy:
// a 7-day max age by default, Secure and SameSite=Strict.
type Store struct {
	maxAge time.Duration
	secure bool
}

func NewStore(maxAge time.Duration, secure bool) *Store {
	return &Store{maxAge: maxAge, secure: secure}
}

func (s *Store) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Set writes both session entries. Called only from the login and signup
// flows.
func (s *Store) Set(c *gin.Context, token string, userID int) {
	maxAge := int(s.maxAge.Seconds())
	s.setCookie(c, tokenCookie, token, maxAge)
	s.setCookie(c, idCookie, strconv.Itoa(userID), maxAge)
}

// Clear drops both session entries. Called from logout and account
// deletion.
func (s *Store) Clear(c *gin.Context) {
	s.setCookie(c, tokenCookie, "", -1)
	s.setCookie(c, idCookie, "", -1)
}

// Token returns the stored backend token, or "" when signed out.
func (s *Store) Token(c *gin.Context) string {
	token, err := c.Cookie(tokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// UserID returns the stored user id, or 0 when signed out.
func (s *Store) UserID(c *gin.Context) int {
	raw, err := c.Cookie(idCookie)
	if err != nil {
		return 0
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return id
}

// LooksValid reports whether the stored token at least parses as a JWT.
// Freshness is not checked here; an expired token fails on the first
// backend call instead.
func (s *Store) LooksValid(c *gin.Context) bool {
	token := s.Token(c)
	if token == "" {
		return false
	}
	_, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	return err == nil
}
