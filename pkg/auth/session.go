package auth

import (
	"crypto/sha256"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the login session cookie.
const SessionName = "showcase-session"

// SessionKeyToken is the session value key holding the access token.
const SessionKeyToken = "token"

// SessionStore manages the signed cookie carrying a browser's access token.
// API clients may skip the cookie entirely and send a Bearer header instead.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore builds a cookie-based session store.
//
// The secret parameter is used to sign session cookies. It can be any
// passphrase - it will be SHA-256 hashed to derive a 32-byte key. The secret
// must be consistent across server restarts and multiple servers in a
// load-balanced deployment.
func NewSessionStore(secret string, maxAge int, secure bool) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionStore{store: store}
}

// SetToken stores the access token in the session cookie.
func (s *SessionStore) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// A stale or tampered cookie yields an error plus a fresh session;
		// overwrite it.
		session, _ = s.store.New(r, SessionName)
	}
	session.Values[SessionKeyToken] = token
	return session.Save(r, w)
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		session, _ = s.store.New(r, SessionName)
	}
	delete(session.Values, SessionKeyToken)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// TokenFromRequest extracts the access token from the Authorization header
// or, failing that, the session cookie. Returns "" if neither is present.
func (s *SessionStore) TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
	}

	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[SessionKeyToken].(string)
	return token
}
