// Package auth turns a bearer token into the caller's session.
package auth

import (
	"context"
	"net/http"
	"strings"

	"accountbook/internal/core"
	applog "accountbook/internal/log"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(token string) (core.Session, error)
}

type contextKey struct{}

func WithSession(ctx context.Context, s core.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (core.Session, bool) {
	s, ok := ctx.Value(contextKey{}).(core.Session)
	return s, ok
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Require rejects requests without a valid token via onFail and otherwise
// stores the session in the request context.
func Require(parser TokenParser, onFail func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				onFail(w, r)
				return
			}
			sess, err := parser.ParseToken(token)
			if err != nil {
				applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth).
					WarnContext(r.Context(), "Rejected bearer token", applog.FieldError, err)
				onFail(w, r)
				return
			}
			ctx := WithSession(r.Context(), sess)
			l := applog.FromContext(ctx).With(applog.FieldOwner, int64(sess.Owner))
			next.ServeHTTP(w, r.WithContext(applog.NewContext(ctx, l)))
		})
	}
}
