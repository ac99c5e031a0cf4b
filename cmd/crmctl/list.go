package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/crm/internal/browser"
	"github.com/JonMunkholm/crm/internal/customer"
)

type listOptions struct {
	query     string
	page      int
	size      int
	sort      string
	dir       string
	selectIDs []string
	format    string
}

func newListCmd() *cobra.Command {
	opts := listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the demo customers as the dashboard shows them",
		Example: `  crmctl list --query silva
  crmctl list --sort nome --dir desc --size 2 --page 1
  crmctl list --select 001,003 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, b, err := runList(opts)
			if err != nil {
				return err
			}
			return renderSnapshot(cmd.OutOrStdout(), snap, b.VisibleColumns(), opts.format)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.query, "query", "q", "", "search text")
	f.IntVar(&opts.page, "page", 0, "zero-based page index")
	f.IntVar(&opts.size, "size", browser.DefaultPageSize, "rows per page")
	f.StringVar(&opts.sort, "sort", "", "column id to sort by")
	f.StringVar(&opts.dir, "dir", "asc", "sort direction: asc, desc")
	f.StringSliceVar(&opts.selectIDs, "select", nil, "ids to mark as selected")
	f.StringVarP(&opts.format, "format", "o", "table", "output format: table, json, md")
	return cmd
}

func runList(opts listOptions) (browser.Snapshot[customer.Customer], *browser.Controller[customer.Customer], error) {
	var zero browser.Snapshot[customer.Customer]

	b, err := customer.NewBrowser(customer.Seed(), opts.size)
	if err != nil {
		return zero, nil, err
	}
	if opts.sort != "" {
		dir, err := browser.ParseDirection(opts.dir)
		if err != nil {
			return zero, nil, err
		}
		if err := b.SetSortColumn(opts.sort, dir); err != nil {
			return zero, nil, err
		}
	}
	seen := make(map[string]bool, len(opts.selectIDs))
	for _, id := range opts.selectIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		b.ToggleSelect(id)
	}
	b.SetQuery(opts.query)
	if err := b.SetPage(opts.page, opts.size); err != nil {
		return zero, nil, err
	}
	return b.Snapshot(), b, nil
}

func renderSnapshot(w io.Writer, snap browser.Snapshot[customer.Customer], cols []browser.Column[customer.Customer], format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "table", "md", "markdown":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{""}
	for _, c := range cols {
		header = append(header, c.Label)
	}
	t.AppendHeader(header)

	for i, rec := range snap.Rows {
		mark := " "
		if snap.Selected[i] {
			mark = "x"
		}
		row := table.Row{mark}
		for _, c := range cols {
			row = append(row, c.Cell(rec))
		}
		t.AppendRow(row)
	}
	if len(snap.Rows) == 0 {
		t.AppendRow(table.Row{"", "Nenhum resultado encontrado."})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d de %d selecionada(s)", snap.SelectedCount, snap.TotalFiltered),
		fmt.Sprintf("página %d de %d", snap.Page.Index+1, snap.PageCount),
		fmt.Sprintf("%d/%d", snap.TotalFiltered, snap.TotalAll)})

	if format == "table" {
		t.Render()
	} else {
		t.RenderMarkdown()
	}
	return nil
}
