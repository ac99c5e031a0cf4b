// Package navigation defines the dashboard sidebar tree.
package navigation

import "strings"

// SubItem is a second-level entry.
type SubItem struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Icon       string `json:"icon,omitempty"`
	ComingSoon bool   `json:"comingSoon,omitempty"`
	NewTab     bool   `json:"newTab,omitempty"`
	IsNew      bool   `json:"isNew,omitempty"`
	Active     bool   `json:"active,omitempty"`
}

// Item is a top-level entry inside a group.
type Item struct {
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Icon       string    `json:"icon,omitempty"`
	SubItems   []SubItem `json:"subItems,omitempty"`
	ComingSoon bool      `json:"comingSoon,omitempty"`
	NewTab     bool      `json:"newTab,omitempty"`
	IsNew      bool      `json:"isNew,omitempty"`
	Active     bool      `json:"active,omitempty"`
}

// Group is a labelled section of the sidebar.
type Group struct {
	ID    int    `json:"id"`
	Label string `json:"label,omitempty"`
	Items []Item `json:"items"`
}

// Sidebar returns a fresh copy of the sidebar tree.
func Sidebar() []Group {
	return []Group{
		{ID: 1, Label: "Início", Items: []Item{
			{Title: "Painel Principal", URL: "/dashboard/default", Icon: "layout-dashboard"},
		}},
		{ID: 2, Label: "Cadastro", Items: []Item{
			{Title: "Clientes", URL: "/dashboard/clientes", Icon: "users"},
		}},
		{ID: 3, Label: "Análises", Items: []Item{
			{Title: "CRM", URL: "/dashboard/crm", Icon: "chart-bar"},
			{Title: "Vendas", URL: "/dashboard/finance", Icon: "banknote", ComingSoon: true},
			{Title: "Desempenho", URL: "/dashboard/analytics", Icon: "gauge", ComingSoon: true},
		}},
		{ID: 4, Label: "E-commerce", Items: []Item{
			{Title: "Produtos", URL: "/dashboard/e-commerce", Icon: "shopping-bag", ComingSoon: true},
			{Title: "Pedidos", URL: "/invoice", Icon: "receipt-text", ComingSoon: true},
			{Title: "Logística", URL: "/dashboard/logistics", Icon: "forklift", ComingSoon: true},
		}},
		{ID: 5, Label: "Colaboração", Items: []Item{
			{Title: "Caixa de Entrada", URL: "/mail", Icon: "mail", ComingSoon: true},
			{Title: "Chat", URL: "/chat", Icon: "message-square", ComingSoon: true},
			{Title: "Calendário", URL: "/calendar", Icon: "calendar", ComingSoon: true},
			{Title: "Projetos", URL: "/kanban", Icon: "kanban", ComingSoon: true},
		}},
		{ID: 6, Label: "Gestão", Items: []Item{
			{Title: "Autenticação", URL: "/auth", Icon: "fingerprint", NewTab: true},
			{Title: "Autorização", URL: "/roles", Icon: "lock", NewTab: true},
		}},
		{ID: 7, Label: "Educação", Items: []Item{
			{Title: "Centro de Aprendizagem", URL: "/others", Icon: "graduation-cap", NewTab: true},
		}},
		{ID: 8, Label: "Monitoramento", Items: []Item{
			{Title: "Sistema", URL: "/dashboard/monitoring/system", Icon: "activity", ComingSoon: true},
			{Title: "Segurança", URL: "/dashboard/monitoring/security", Icon: "shield", ComingSoon: true},
			{Title: "Servidores", URL: "/dashboard/monitoring/servers", Icon: "server", ComingSoon: true},
		}},
	}
}

// WithActive returns the sidebar with the entry matching path marked
// active. An item is also active when one of its sub-items matches.
// Matching is on the path prefix, so /dashboard/clientes/001 activates
// /dashboard/clientes.
func WithActive(path string) []Group {
	groups := Sidebar()
	for gi := range groups {
		for ii := range groups[gi].Items {
			item := &groups[gi].Items[ii]
			for si := range item.SubItems {
				if matches(path, item.SubItems[si].URL) {
					item.SubItems[si].Active = true
					item.Active = true
				}
			}
			if matches(path, item.URL) {
				item.Active = true
			}
		}
	}
	return groups
}

// Find returns the item whose URL equals url.
func Find(url string) (Item, bool) {
	for _, g := range Sidebar() {
		for _, item := range g.Items {
			if item.URL == url {
				return item, true
			}
		}
	}
	return Item{}, false
}

func matches(path, url string) bool {
	if path == url {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(url, "/")+"/")
}
