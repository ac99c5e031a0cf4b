package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/crm/internal/logging"
)

const sessionIDKey = "sid"

type issuedKey struct{}

// SessionIssued reports whether the request's session id was issued by this
// request rather than sent back by the client.
func SessionIssued(ctx context.Context) bool {
	issued, _ := ctx.Value(issuedKey{}).(bool)
	return issued
}

// Session makes sure every request carries a browsing session id. The id
// lives in a signed cookie and is put in the request context, where
// logging.SessionFromContext finds it. A cookie that fails to decode is
// replaced by a fresh session.
func Session(store sessions.Store, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r, name)
			if err != nil {
				logging.FromContext(r.Context()).Debug("discarding session cookie", "error", err)
			}
			if sess == nil {
				sess = sessions.NewSession(store, name)
			}

			ctx := r.Context()
			id, _ := sess.Values[sessionIDKey].(string)
			if _, perr := uuid.Parse(id); perr != nil {
				ctx = context.WithValue(ctx, issuedKey{}, true)
				id = uuid.NewString()
				sess.Values[sessionIDKey] = id
				if err := sess.Save(r, w); err != nil {
					logging.FromContext(r.Context()).Error("saving session cookie", "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(logging.ContextWithSession(ctx, id)))
		})
	}
}

// NewCookieStore returns the signed cookie store used by Session.
func NewCookieStore(secret []byte, maxAgeSeconds int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
