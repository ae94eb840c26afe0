package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-bff/internal/session"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

const sessionCookie = "storefront_session"

// Session resolves the caller's storefront session and attaches it to the
// request context. A bearer credential scopes the session to its subject;
// without one an anonymous cookie identity is minted. The credential is never
// verified here, the commerce backend is the authority; claims are read only
// to scope the cart and prefill contact fields.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := resolveSession(w, r)
			ctx := session.WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSession(w http.ResponseWriter, r *http.Request) session.Session {
	token := bearerToken(r)
	if token != "" {
		if sess, ok := sessionFromToken(token); ok {
			return sess
		}
	}

	id := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		id = cookie.Value
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return session.Session{ID: id, Token: token}
}

func sessionFromToken(token string) (session.Session, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return session.Session{}, false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return session.Session{}, false
	}

	sess := session.Session{ID: sub, Token: token}
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		sess.Name = name
	}
	return sess, true
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
