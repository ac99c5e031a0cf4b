package web

// handlers_customers.go serves the customer list API. View-state handlers
// operate on the session's browser and answer with its snapshot; mutation
// handlers go through the service, which refreshes every session.

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/crm/internal/browser"
	"github.com/JonMunkholm/crm/internal/core"
	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/logging"
	"github.com/JonMunkholm/crm/internal/preferences"
	"github.com/JonMunkholm/crm/internal/web/middleware"
	"github.com/JonMunkholm/crm/internal/web/templates"
)

type customerBrowser = browser.Controller[customer.Customer]

// browserFor returns the session's browser. Ids issued by this request only
// get a short-lived browser until the client sends the cookie back.
func (s *Server) browserFor(r *http.Request) (*customerBrowser, error) {
	id := logging.SessionFromContext(r.Context())
	if middleware.SessionIssued(r.Context()) {
		return s.service.IssuedBrowser(id)
	}
	return s.service.Browser(id)
}

// withBrowser resolves the session browser, runs fn and responds with the
// resulting view.
func (s *Server) withBrowser(fn func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := s.browserFor(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if err := fn(w, r, b); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondView(w, r, http.StatusOK, b.Snapshot())
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(http.ResponseWriter, *http.Request, *customerBrowser) error {
		return nil
	})(w, r)
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error {
		var req struct {
			Query string `json:"query"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		b.SetQuery(req.Query)
		return nil
	})(w, r)
}

func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error {
		var req struct {
			Index int  `json:"index"`
			Size  *int `json:"size"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}

		size := b.Snapshot().Page.Size
		if req.Size != nil {
			size = *req.Size
			if size > 0 && !slices.Contains(s.cfg.Browser.PageSizes, size) {
				return &browser.ConfigurationError{
					Field:  "pageSize",
					Reason: fmt.Sprintf("%d is not one of %v", size, s.cfg.Browser.PageSizes),
				}
			}
		}
		if err := b.SetPage(req.Index, size); err != nil {
			return err
		}
		if req.Size != nil {
			preferences.Set(w, preferences.PageSize, strconv.Itoa(size))
		}
		return nil
	})(w, r)
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error {
		var req struct {
			Column    string `json:"column"`
			Direction string `json:"direction"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		dir, err := browser.ParseDirection(req.Direction)
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrBadRequest, err)
		}
		return b.SetSortColumn(req.Column, dir)
	})(w, r)
}

func (s *Server) handleSetColumnVisible(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error {
		var req struct {
			Visible bool `json:"visible"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		return b.SetColumnVisible(chi.URLParam(r, "columnID"), req.Visible)
	})(w, r)
}

func (s *Server) handleToggleSelect(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error {
		b.ToggleSelect(chi.URLParam(r, "id"))
		return nil
	})(w, r)
}

func (s *Server) handleSelectPage(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error {
		var req struct {
			Selected bool `json:"selected"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		b.SelectVisiblePage(req.Selected)
		return nil
	})(w, r)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.withBrowser(func(w http.ResponseWriter, r *http.Request, b *customerBrowser) error {
		b.ClearSelection()
		return nil
	})(w, r)
}

// SelectedResponse lists the selection, including rows hidden by the filter.
type SelectedResponse struct {
	IDs       []string            `json:"ids"`
	Customers []customer.Customer `json:"customers"`
}

func (s *Server) handleSelected(w http.ResponseWriter, r *http.Request) {
	b, err := s.browserFor(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	selected := b.Selected()
	resp := SelectedResponse{IDs: make([]string, len(selected)), Customers: selected}
	for i, c := range selected {
		resp.IDs[i] = c.ID
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// --- Form ---

func (s *Server) respondForm(w http.ResponseWriter, r *http.Request, status int, id string, f customer.Form, errs customer.ValidationErrors) {
	if isHTMX(r) {
		s.render(w, r, status, templates.CustomerForm(id, f, errs))
		return
	}
	writeJSON(w, r, status, f)
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	s.respondForm(w, r, http.StatusOK, "", customer.NewForm(), nil)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.Customer(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if isHTMX(r) {
		s.render(w, r, http.StatusOK, templates.CustomerForm(c.ID, customer.FormFrom(c), nil))
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

// handleFillAddress resolves the form's CEP and returns the merged form.
// An incomplete CEP returns the form unchanged.
func (s *Server) handleFillAddress(w http.ResponseWriter, r *http.Request) {
	f := customer.NewForm()
	if err := decodeJSON(w, r, &f); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := f.Set("cep", f.CEP); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", core.ErrBadRequest, err))
		return
	}
	if err := s.service.FillAddress(r.Context(), &f); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondForm(w, r, http.StatusOK, r.URL.Query().Get("id"), f, nil)
}

// --- Mutations ---

// saveFailed re-renders the form with field errors for HTMX callers.
func (s *Server) saveFailed(w http.ResponseWriter, r *http.Request, id string, f customer.Form, err error) {
	var verrs customer.ValidationErrors
	if isHTMX(r) && errors.As(err, &verrs) {
		s.respondForm(w, r, http.StatusUnprocessableEntity, id, f, verrs)
		return
	}
	s.respondError(w, r, err)
}

// respondMutation answers a successful mutation: the refreshed table for
// HTMX, the given JSON body otherwise.
func (s *Server) respondMutation(w http.ResponseWriter, r *http.Request, status int, body any) {
	if isHTMX(r) {
		b, err := s.browserFor(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondView(w, r, http.StatusOK, b.Snapshot())
		return
	}
	writeJSON(w, r, status, body)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	f := customer.NewForm()
	if err := decodeJSON(w, r, &f); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.service.CreateCustomer(r.Context(), f)
	if err != nil {
		s.saveFailed(w, r, "", f, err)
		return
	}
	s.respondMutation(w, r, http.StatusCreated, c)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.service.Customer(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	// Fields left out of the body keep their stored values.
	f := customer.FormFrom(existing)
	if err := decodeJSON(w, r, &f); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.service.UpdateCustomer(r.Context(), id, f)
	if err != nil {
		s.saveFailed(w, r, id, f, err)
		return
	}
	s.respondMutation(w, r, http.StatusOK, c)
}

// DeleteResponse reports how many customers were removed.
type DeleteResponse struct {
	Removed int `json:"removed"`
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	removed, err := s.service.DeleteCustomers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondMutation(w, r, http.StatusOK, DeleteResponse{Removed: removed})
}

func (s *Server) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	removed, err := s.service.DeleteSelected(r.Context(), logging.SessionFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondMutation(w, r, http.StatusOK, DeleteResponse{Removed: removed})
}

// --- Change log ---

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	filter := core.AuditLogFilter{Action: core.AuditAction(r.URL.Query().Get("action"))}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, r, fmt.Errorf("%w: limit %q", core.ErrBadRequest, v))
			return
		}
		filter.Limit = n
	}
	writeJSON(w, r, http.StatusOK, s.service.AuditLog(filter))
}
