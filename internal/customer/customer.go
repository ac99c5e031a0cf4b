// Package customer holds the CRM customer record, its registration form,
// the column schema used to browse customers and an in-memory repository.
package customer

import (
	"strings"
	"time"
)

// Kind distinguishes individuals (PF) from companies (PJ).
type Kind string

const (
	KindIndividual Kind = "PF"
	KindCompany    Kind = "PJ"
)

// Label returns the display name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindIndividual:
		return "Pessoa Física"
	case KindCompany:
		return "Pessoa Jurídica"
	}
	return ""
}

// Status values shown in the customer list.
const (
	StatusActive   = "Ativo"
	StatusInactive = "Inativo"
)

// Address is a postal address. CEP holds 8 digits.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Number       string `json:"numero"`
	Neighborhood string `json:"bairro"`
	Region       string `json:"regiao,omitempty"`
	City         string `json:"cidade"`
	State        string `json:"uf"`
}

// Customer is one registered customer.
type Customer struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"tipo"`
	Document    string    `json:"documento"`
	Name        string    `json:"razaoSocialNome"`
	TradeName   string    `json:"nomeFantasia,omitempty"`
	ContactName string    `json:"nomeContato"`
	Email       string    `json:"email"`
	Phone       string    `json:"telefone"`
	Address     Address   `json:"endereco"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Active      bool      `json:"ativo"`
	CreatedAt   time.Time `json:"criadoEm"`
}

// Status returns "Ativo" or "Inativo".
func (c Customer) Status() string {
	if c.Active {
		return StatusActive
	}
	return StatusInactive
}

// DisplayName prefers the trade name for companies.
func (c Customer) DisplayName() string {
	if c.Kind == KindCompany && strings.TrimSpace(c.TradeName) != "" {
		return c.TradeName
	}
	return c.Name
}

// CityState renders "City/UF", or whichever part is known.
func (c Customer) CityState() string {
	switch {
	case c.Address.City != "" && c.Address.State != "":
		return c.Address.City + "/" + c.Address.State
	case c.Address.City != "":
		return c.Address.City
	}
	return c.Address.State
}

// RecordID is the browser id extractor for customers.
func RecordID(c Customer) string {
	return c.ID
}
