package web

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/navigation"
	"github.com/JonMunkholm/crm/internal/preferences"
	"github.com/JonMunkholm/crm/internal/web/templates"
)

// Sidebar preferences accepted from cookies.
var (
	sidebarVariants    = []string{"inset", "sidebar", "floating"}
	sidebarCollapsible = []string{"icon", "offcanvas", "none"}
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard/clientes", http.StatusFound)
}

// handleCustomersPage renders the customers page, or only the table for
// HTMX requests. A stored page-size preference is applied first.
func (s *Server) handleCustomersPage(w http.ResponseWriter, r *http.Request) {
	b, err := s.browserFor(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if pref, err := strconv.Atoi(preferences.Value(r, preferences.PageSize)); err == nil &&
		slices.Contains(s.cfg.Browser.PageSizes, pref) {
		if page := b.Snapshot().Page; page.Size != pref {
			if err := b.SetPage(page.Index, pref); err != nil {
				s.respondError(w, r, err)
				return
			}
		}
	}

	view := s.tableView(b.Snapshot())
	if isHTMX(r) {
		s.render(w, r, http.StatusOK, templates.CustomerTable(view))
		return
	}

	page := templates.PageParams{
		Title:              "Clientes",
		Nav:                navigation.WithActive(r.URL.Path),
		SidebarVariant:     preferences.Get(r, preferences.SidebarVariant, sidebarVariants, "inset"),
		SidebarCollapsible: preferences.Get(r, preferences.SidebarCollapse, sidebarCollapsible, "icon"),
	}
	s.render(w, r, http.StatusOK, templates.Layout(page, templates.CustomersPage(view, customer.NewForm(), nil)))
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, navigation.WithActive(r.URL.Query().Get("path")))
}

func (s *Server) handleLookupCEP(w http.ResponseWriter, r *http.Request) {
	addr, err := s.service.LookupAddress(r.Context(), chi.URLParam(r, "cep"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, addr)
}
