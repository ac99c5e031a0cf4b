// Package preferences reads and writes UI preferences kept in cookies.
package preferences

import (
	"net/http"
	"slices"
	"strings"
	"time"
)

// Cookie names.
const (
	PageSize        = "crm_page_size"
	SidebarVariant  = "sidebar_variant"
	SidebarCollapse = "sidebar_collapsible"
)

// Value returns the trimmed cookie value for key, or "" when absent.
func Value(r *http.Request, key string) string {
	c, err := r.Cookie(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// Get returns the cookie value for key when it is one of allowed, else fallback.
func Get[T ~string](r *http.Request, key string, allowed []T, fallback T) T {
	v := T(Value(r, key))
	if slices.Contains(allowed, v) {
		return v
	}
	return fallback
}

// Set stores a preference for one year.
func Set(w http.ResponseWriter, key, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: http.SameSiteLaxMode,
	})
}
