package main

import (
	"encoding/json"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/crm/internal/cep"
	"github.com/JonMunkholm/crm/internal/core"
	"github.com/JonMunkholm/crm/internal/customer"
)

// lookupError prints the user message of a failed lookup and keeps the
// cause for errors.Is.
type lookupError struct{ err error }

func (e lookupError) Error() string { return core.FormatUserError(e.err) }
func (e lookupError) Unwrap() error { return e.err }

func newCEPCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "cep <code>",
		Short: "Resolve a CEP to an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := cep.New(cep.Options{BaseURL: baseURL, Timeout: timeout})
			addr, err := client.Lookup(cmd.Context(), args[0])
			if err != nil {
				if core.IsUserFacing(err) {
					return lookupError{err}
				}
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(addr)
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendRows([]table.Row{
				{"CEP", customer.FormatCEP(addr.CEP)},
				{"Logradouro", addr.Street},
				{"Complemento", addr.Complement},
				{"Bairro", addr.Neighborhood},
				{"Cidade", addr.City},
				{"UF", addr.State},
			})
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", cep.DefaultBaseURL, "address provider base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "lookup timeout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the address as JSON")
	return cmd
}

