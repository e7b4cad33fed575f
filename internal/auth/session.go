package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"garageclient/internal/client"
	"garageclient/internal/domain"
	"garageclient/internal/domain/models"
	"garageclient/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the authenticated state for one process: token and user.
// Only Login and Logout mutate it; everything else reads. It satisfies
// client.TokenSource so the transport can attach the bearer header.
type Session struct {
	mu    sync.RWMutex
	token string
	user  models.User
}

// Claims are the token fields the client cares about.
type Claims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Token implements client.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the authenticated user of the current session.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// Login exchanges credentials for a token. On success the session becomes
// valid and subsequent requests through clients using it carry the bearer
// header.
func (s *Session) Login(ctx context.Context, c *client.Client, email, password string) error {
	var resp loginResponse
	status, err := c.JSON(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || (!resp.Success && resp.Token == "") {
		msg := resp.Message
		if msg == "" {
			msg = "wrong email/username or password"
		}
		return domain.UnauthorizedError{Msg: msg}
	}
	if resp.Token == "" {
		return domain.TransportError{Msg: "login response carried no token"}
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = resp.User
	s.mu.Unlock()

	utils.LogEvent("", "auth", "login", "user_id="+resp.User.ID)
	return nil
}

// Logout drops the token; outgoing requests become unauthenticated.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = models.User{}
	s.mu.Unlock()
	utils.LogEvent("", "auth", "logout", "")
}

// Claims decodes the token payload without verifying the signature; the
// client has no secret and only needs expiry and identity hints. The
// server remains the authority.
func (s *Session) Claims() (Claims, error) {
	s.mu.RLock()
	raw := s.token
	s.mu.RUnlock()

	if raw == "" {
		return Claims{}, domain.UnauthorizedError{Msg: "no active session"}
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Claims{}, domain.UnauthorizedError{Msg: "malformed token", Err: err}
	}

	out := Claims{}
	if v, ok := claims["user_id"].(string); ok {
		out.UserID = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Valid reports whether a token is present and unexpired. An expired
// token still gets a 401 server-side; this only lets the UI redirect to
// login without a round trip.
func (s *Session) Valid() bool {
	claims, err := s.Claims()
	if err != nil {
		return false
	}
	if claims.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(claims.ExpiresAt)
}
