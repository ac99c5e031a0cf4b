package customer

import (
	"strings"
	"time"

	"github.com/JonMunkholm/crm/internal/browser"
)

// Search matches customers by id, name, trade name, document (with or
// without punctuation), contact, e-mail or city. Case and accents are ignored.
var Search browser.Predicate[Customer] = func(c Customer, query string) bool {
	if matchText(c, query) {
		return true
	}
	q := Digits(query)
	return q != "" && q == strings.TrimSpace(query) && strings.Contains(Digits(c.Document), q)
}

var matchText = browser.ContainsAny(
	func(c Customer) string { return c.ID },
	func(c Customer) string { return c.Name },
	func(c Customer) string { return c.TradeName },
	func(c Customer) string { return c.Document },
	func(c Customer) string { return c.ContactName },
	func(c Customer) string { return c.Email },
	func(c Customer) string { return c.Address.City },
)

// Columns returns the customer list columns. Each call returns a fresh
// slice so visibility changes stay local to one browser.
func Columns() []browser.Column[Customer] {
	id := browser.TextColumn("id", "Código", func(c Customer) string { return c.ID })
	id.Hideable = false

	name := browser.TextColumn("nome", "Nome / Razão Social", Customer.DisplayName)
	name.Hideable = false

	kind := browser.TextColumn("tipo", "Tipo", func(c Customer) string { return string(c.Kind) })

	contact := browser.TextColumn("contato", "Contato", func(c Customer) string { return c.ContactName })
	contact.Hidden = true

	cep := browser.TextColumn("cep", "CEP", func(c Customer) string { return FormatCEP(c.Address.CEP) })
	cep.Hidden = true

	return []browser.Column[Customer]{
		id,
		name,
		kind,
		browser.TextColumn("documento", "CPF / CNPJ", func(c Customer) string { return c.Document }),
		contact,
		browser.TextColumn("email", "E-mail", func(c Customer) string { return c.Email }),
		browser.TextColumn("telefone", "Telefone", func(c Customer) string { return c.Phone }),
		cep,
		browser.TextColumn("cidade", "Cidade/UF", Customer.CityState),
		browser.TextColumn("status", "Status", Customer.Status),
		browser.DateColumn("criado", "Cadastro", func(c Customer) time.Time { return c.CreatedAt }, "02/01/2006"),
	}
}

// NewBrowser builds a customer browser loaded with records.
func NewBrowser(records []Customer, pageSize int) (*browser.Controller[Customer], error) {
	b, err := browser.New(browser.Options[Customer]{
		ID:       RecordID,
		Match:    Search,
		Columns:  Columns(),
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	if err := b.SetRecords(records); err != nil {
		return nil, err
	}
	return b, nil
}
