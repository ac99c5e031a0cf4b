package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/crm/internal/customer"
)

// TableColumn is one header cell.
type TableColumn struct {
	ID        string
	Label     string
	Sortable  bool
	Hideable  bool
	Visible   bool
	Direction string
}

// TableRow is one rendered record.
type TableRow struct {
	ID       string
	Cells    []string
	Selected bool
}

// TableView is everything the customers table needs to render.
type TableView struct {
	Columns       []TableColumn
	Rows          []TableRow
	Query         string
	Page          int
	PageSize      int
	PageCount     int
	PageSizes     []int
	TotalFiltered int
	TotalAll      int
	SelectedCount int
	SortColumn    string
	SortDirection string
}

// AllPageSelected reports whether every row on the page is selected.
func (v TableView) AllPageSelected() bool {
	if len(v.Rows) == 0 {
		return false
	}
	for _, r := range v.Rows {
		if !r.Selected {
			return false
		}
	}
	return true
}

// CustomersPage is the body of /dashboard/clientes.
func CustomersPage(table TableView, form customer.Form, errs customer.ValidationErrors) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<header class="page-header"><h1>Clientes</h1>`)
		h.raw(`<p>Gerencie o cadastro de clientes pessoa física e jurídica.</p></header>`)
		h.raw(`<div id="alerts"></div>`)
		h.child(ctx, CustomerTable(table))
		h.child(ctx, CustomerForm("", form, errs))
	})
}

// CustomerTable renders the toolbar, table and pagination. It is also the
// fragment swapped on every view-state change.
func CustomerTable(v TableView) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<section id="customers-table" class="table-card">`)

		h.raw(`<div class="toolbar"><input type="search" name="q" placeholder="Buscar clientes..." data-action="query"`)
		h.attr("value", v.Query)
		h.raw(`>`)
		h.raw(`<details class="columns-menu"><summary>Colunas</summary><ul>`)
		for _, col := range v.Columns {
			if !col.Hideable {
				continue
			}
			h.raw(`<li><label><input type="checkbox" data-action="column"`)
			h.attr("data-column", col.ID)
			if col.Visible {
				h.raw(` checked`)
			}
			h.raw(`> `)
			h.text(col.Label)
			h.raw(`</label></li>`)
		}
		h.raw(`</ul></details>`)
		if v.SelectedCount > 0 {
			h.raw(`<button type="button" class="danger" data-action="delete-selected">Excluir selecionados (`)
			h.text(strconv.Itoa(v.SelectedCount))
			h.raw(`)</button>`)
		}
		h.raw(`</div>`)

		h.raw(`<table><thead><tr><th class="select"><input type="checkbox" data-action="select-page" aria-label="Selecionar página"`)
		if v.AllPageSelected() {
			h.raw(` checked`)
		}
		h.raw(`></th>`)
		visible := 0
		for _, col := range v.Columns {
			if !col.Visible {
				continue
			}
			visible++
			h.raw(`<th`)
			h.attr("data-column", col.ID)
			if col.Direction != "" {
				h.attr("aria-sort", ariaSort(col.Direction))
			}
			h.raw(`>`)
			if col.Sortable {
				h.raw(`<button type="button" data-action="sort"`)
				h.attr("data-column", col.ID)
				h.attr("data-direction", nextDirection(col.Direction))
				h.raw(`>`)
				h.text(col.Label)
				h.raw(sortIndicator(col.Direction))
				h.raw(`</button>`)
			} else {
				h.text(col.Label)
			}
			h.raw(`</th>`)
		}
		h.raw(`<th class="actions"></th></tr></thead><tbody>`)

		if len(v.Rows) == 0 {
			h.raw(`<tr class="empty"><td`)
			h.attr("colspan", strconv.Itoa(visible+2))
			h.raw(`>Nenhum resultado encontrado.</td></tr>`)
		}
		for _, row := range v.Rows {
			h.raw(`<tr`)
			h.attr("data-id", row.ID)
			if row.Selected {
				h.raw(` class="selected"`)
			}
			h.raw(`><td class="select"><input type="checkbox" data-action="select"`)
			h.attr("data-id", row.ID)
			h.attr("aria-label", "Selecionar "+row.ID)
			if row.Selected {
				h.raw(` checked`)
			}
			h.raw(`></td>`)
			for _, cell := range row.Cells {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`<td class="actions"><button type="button" data-action="edit"`)
			h.attr("data-id", row.ID)
			h.raw(`>Editar</button><button type="button" class="danger" data-action="delete"`)
			h.attr("data-id", row.ID)
			h.raw(`>Excluir</button></td></tr>`)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<footer class="pagination"><span class="selection-count">`)
		h.text(strconv.Itoa(v.SelectedCount) + " de " + strconv.Itoa(v.TotalFiltered) + " linha(s) selecionada(s).")
		h.raw(`</span><label>Linhas por página <select data-action="page-size">`)
		for _, size := range v.PageSizes {
			h.raw(`<option`)
			h.attr("value", strconv.Itoa(size))
			if size == v.PageSize {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(strconv.Itoa(size))
			h.raw(`</option>`)
		}
		h.raw(`</select></label><span class="page-indicator">Página `)
		h.text(strconv.Itoa(v.Page+1) + " de " + strconv.Itoa(v.PageCount))
		h.raw(`</span>`)
		pageButton(h, "Primeira", 0, v.Page > 0)
		pageButton(h, "Anterior", v.Page-1, v.Page > 0)
		pageButton(h, "Próxima", v.Page+1, v.Page < v.PageCount-1)
		pageButton(h, "Última", v.PageCount-1, v.Page < v.PageCount-1)
		h.raw(`</footer></section>`)
	})
}

func pageButton(h *html, label string, target int, enabled bool) {
	h.raw(`<button type="button" data-action="page"`)
	h.attr("data-page", strconv.Itoa(target))
	if !enabled {
		h.raw(` disabled`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</button>`)
}

func nextDirection(current string) string {
	switch current {
	case "asc":
		return "desc"
	case "desc":
		return ""
	default:
		return "asc"
	}
}

func ariaSort(dir string) string {
	if dir == "desc" {
		return "descending"
	}
	return "ascending"
}

func sortIndicator(dir string) string {
	switch dir {
	case "asc":
		return ` <span aria-hidden="true">▲</span>`
	case "desc":
		return ` <span aria-hidden="true">▼</span>`
	default:
		return ""
	}
}
