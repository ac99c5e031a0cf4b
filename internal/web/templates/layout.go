package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/crm/internal/navigation"
)

// PageParams is the chrome shared by every page.
type PageParams struct {
	Title          string
	Nav            []navigation.Group
	SidebarVariant string
	// SidebarCollapsible is how the sidebar collapses: icon, offcanvas or none.
	SidebarCollapsible string
}

// Layout wraps body in the document shell with the sidebar.
func Layout(p PageParams, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(p.Title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="/static/app.js" defer></script></head>`)
		h.raw(`<body><div`)
		collapse := ""
		if p.SidebarCollapsible != "" {
			collapse = "collapse-" + p.SidebarCollapsible
		}
		h.attr("class", classes("shell", "sidebar-"+p.SidebarVariant, collapse))
		h.raw(`>`)
		h.child(ctx, Sidebar(p.Nav))
		h.raw(`<main class="content">`)
		h.child(ctx, body)
		h.raw(`</main></div></body></html>`)
	})
}

// Sidebar renders the navigation groups.
func Sidebar(groups []navigation.Group) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<nav class="sidebar">`)
		for _, g := range groups {
			h.raw(`<section class="nav-group">`)
			if g.Label != "" {
				h.raw(`<h2>`)
				h.text(g.Label)
				h.raw(`</h2>`)
			}
			h.raw(`<ul>`)
			for _, item := range g.Items {
				h.raw(`<li`)
				h.attr("class", classes("nav-item", activeClass(item.Active), soonClass(item.ComingSoon)))
				h.raw(`>`)
				if item.ComingSoon {
					h.raw(`<span>`)
					h.text(item.Title)
					h.raw(`</span><em class="badge">Em breve</em>`)
				} else {
					h.raw(`<a`)
					h.attr("href", item.URL)
					if item.NewTab {
						h.attr("target", "_blank")
						h.attr("rel", "noopener")
					}
					h.raw(`>`)
					h.text(item.Title)
					h.raw(`</a>`)
				}
				if item.IsNew {
					h.raw(`<em class="badge">Novo</em>`)
				}
				if len(item.SubItems) > 0 {
					h.raw(`<ul>`)
					for _, sub := range item.SubItems {
						h.raw(`<li`)
						h.attr("class", classes("nav-sub", activeClass(sub.Active)))
						h.raw(`><a`)
						h.attr("href", sub.URL)
						h.raw(`>`)
						h.text(sub.Title)
						h.raw(`</a></li>`)
					}
					h.raw(`</ul>`)
				}
				h.raw(`</li>`)
			}
			h.raw(`</ul></section>`)
		}
		h.raw(`</nav>`)
	})
}

func activeClass(active bool) string {
	if active {
		return "active"
	}
	return ""
}

func soonClass(soon bool) string {
	if soon {
		return "coming-soon"
	}
	return ""
}
