package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/crm/internal/browser"
	"github.com/JonMunkholm/crm/internal/core"
	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/logging"
	"github.com/JonMunkholm/crm/internal/web/templates"
)

// MaxBodySize caps JSON request bodies.
const MaxBodySize = 1 << 20

// cellColumns renders cells by column id. Visibility comes from each
// snapshot, so the shared definitions are read-only here.
var cellColumns = func() map[string]browser.Column[customer.Customer] {
	m := make(map[string]browser.Column[customer.Customer])
	for _, c := range customer.Columns() {
		m[c.ID] = c
	}
	return m
}()

type customerSnapshot = browser.Snapshot[customer.Customer]

// tableView converts a snapshot into the table template model.
func (s *Server) tableView(snap customerSnapshot) templates.TableView {
	v := templates.TableView{
		Query:         snap.Query,
		Page:          snap.Page.Index,
		PageSize:      snap.Page.Size,
		PageCount:     snap.PageCount,
		PageSizes:     s.cfg.Browser.PageSizes,
		TotalFiltered: snap.TotalFiltered,
		TotalAll:      snap.TotalAll,
		SelectedCount: snap.SelectedCount,
		SortColumn:    snap.Sort.ColumnID,
		SortDirection: string(snap.Sort.Direction),
	}

	var visible []browser.Column[customer.Customer]
	for _, info := range snap.Columns {
		col := templates.TableColumn{
			ID:       info.ID,
			Label:    info.Label,
			Sortable: info.Sortable,
			Hideable: info.Hideable,
			Visible:  info.Visible,
		}
		if snap.Sort.ColumnID == info.ID {
			col.Direction = string(snap.Sort.Direction)
		}
		v.Columns = append(v.Columns, col)
		if info.Visible {
			visible = append(visible, cellColumns[info.ID])
		}
	}

	v.Rows = make([]templates.TableRow, len(snap.Rows))
	for i, rec := range snap.Rows {
		cells := make([]string, len(visible))
		for j, col := range visible {
			cells[j] = col.Cell(rec)
		}
		v.Rows[i] = templates.TableRow{ID: rec.ID, Cells: cells, Selected: snap.Selected[i]}
	}
	return v
}

// respondView writes the browser state: the table fragment for HTMX, the
// snapshot as JSON otherwise.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, status int, snap customerSnapshot) {
	if isHTMX(r) {
		s.render(w, r, status, templates.CustomerTable(s.tableView(snap)))
		return
	}
	writeJSON(w, r, status, snap)
}

// render writes an HTML component.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render", "error", err)
	}
}

// decodeJSON reads a JSON body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %w", core.ErrBadRequest, err)
	}
	return nil
}
