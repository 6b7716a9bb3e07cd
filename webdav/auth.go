package webdav

import (
	"crypto/subtle"
	"net/http"

	"github.com/mwantia/sizefs/log"
)

const authRealm = "SizeFS WebDAV"

// AuthMiddleware protects a handler with HTTP basic authentication.
type AuthMiddleware struct {
	next     http.Handler
	username string
	password string
	log      *log.Logger
}

// NewAuthMiddleware wraps next. Without a username, next is returned unwrapped.
func NewAuthMiddleware(next http.Handler, username, password string, logger *log.Logger) http.Handler {
	if username == "" {
		return next
	}

	return &AuthMiddleware{
		next:     next,
		username: username,
		password: password,
		log:      logger.Named("webdav"),
	}
}

func (m *AuthMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		m.unauthorized(w, r, "missing credentials")
		return
	}

	if !m.validateCredentials(username, password) {
		m.unauthorized(w, r, "invalid credentials")
		return
	}

	m.next.ServeHTTP(w, r)
}

func (m *AuthMiddleware) validateCredentials(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1

	return usernameMatch && passwordMatch
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	m.log.Warn("Authentication for %s '%s' from %s failed: %s", r.Method, r.URL.Path, r.RemoteAddr, reason)

	w.Header().Set("WWW-Authenticate", `Basic realm="`+authRealm+`"`)
	http.Error(w, "401 Unauthorized", http.StatusUnauthorized)
}
