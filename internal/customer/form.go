package customer

import (
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/crm/internal/cep"
)

// Form is the draft state of the customer registration form.
type Form struct {
	Kind        Kind     `json:"tipo"`
	Document    string   `json:"documento"`
	Name        string   `json:"razaoSocialNome"`
	TradeName   string   `json:"nomeFantasia"`
	ContactName string   `json:"nomeContato"`
	Email       string   `json:"email"`
	Phone       string   `json:"telefone"`
	CEP         string   `json:"cep"`
	Street      string   `json:"logradouro"`
	Number      string   `json:"numero"`
	District    string   `json:"bairro"`
	Region      string   `json:"regiao"`
	City        string   `json:"cidade"`
	State       string   `json:"uf"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Active      bool     `json:"ativo"`
}

// NewForm returns an empty form. New customers start active.
func NewForm() Form {
	return Form{Active: true}
}

// FormFrom fills a form from an existing customer for editing.
func FormFrom(c Customer) Form {
	return Form{
		Kind:        c.Kind,
		Document:    c.Document,
		Name:        c.Name,
		TradeName:   c.TradeName,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		CEP:         c.Address.CEP,
		Street:      c.Address.Street,
		Number:      c.Address.Number,
		District:    c.Address.Neighborhood,
		Region:      c.Address.Region,
		City:        c.Address.City,
		State:       c.Address.State,
		Latitude:    copyFloat(c.Latitude),
		Longitude:   copyFloat(c.Longitude),
		Active:      c.Active,
	}
}

// copyFloat keeps a form from sharing coordinates with a stored customer.
func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Reset clears every field back to NewForm.
func (f *Form) Reset() {
	*f = NewForm()
}

// Set updates one field by its form name. The CEP is reduced to at most
// 8 digits and the state is upper-cased to at most 2 letters, as the inputs do.
func (f *Form) Set(field, value string) error {
	switch field {
	case "tipo":
		f.Kind = Kind(value)
	case "documento":
		f.Document = value
	case "razaoSocialNome":
		f.Name = value
	case "nomeFantasia":
		f.TradeName = value
	case "nomeContato":
		f.ContactName = value
	case "email":
		f.Email = value
	case "telefone":
		f.Phone = value
	case "cep":
		d := Digits(value)
		if len(d) > 8 {
			d = d[:8]
		}
		f.CEP = d
	case "logradouro":
		f.Street = value
	case "numero":
		f.Number = value
	case "bairro":
		f.District = value
	case "regiao":
		f.Region = value
	case "cidade":
		f.City = value
	case "uf":
		v := []rune(strings.ToUpper(strings.TrimSpace(value)))
		if len(v) > 2 {
			v = v[:2]
		}
		f.State = string(v)
	case "latitude", "longitude":
		var p *float64
		if strings.TrimSpace(value) != "" {
			n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return fmt.Errorf("%s: invalid number %q", field, value)
			}
			p = &n
		}
		if field == "latitude" {
			f.Latitude = p
		} else {
			f.Longitude = p
		}
	case "ativo":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ativo: invalid boolean %q", value)
		}
		f.Active = b
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	return nil
}

// NeedsLookup reports whether the CEP is complete enough to resolve.
func (f Form) NeedsLookup() bool {
	return len(f.CEP) == 8
}

// ApplyAddress merges a resolved address. Only street, neighborhood, city
// and state are overwritten; number and region stay as typed.
func (f *Form) ApplyAddress(a cep.Address) {
	f.Street = a.Street
	f.District = a.Neighborhood
	f.City = a.City
	f.State = a.State
}

// ValidationErrors maps form field names to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "invalid customer: " + strings.Join(parts, "; ")
}

// Validate checks required fields and formats. It returns ValidationErrors
// or nil.
func (f Form) Validate() error {
	errs := ValidationErrors{}
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = "required field"
		}
	}

	switch f.Kind {
	case KindIndividual:
		if strings.TrimSpace(f.Document) == "" {
			errs["documento"] = "required field"
		} else if !ValidCPF(f.Document) {
			errs["documento"] = "invalid CPF"
		}
	case KindCompany:
		if strings.TrimSpace(f.Document) == "" {
			errs["documento"] = "required field"
		} else if !ValidCNPJ(f.Document) {
			errs["documento"] = "invalid CNPJ"
		}
	case "":
		errs["tipo"] = "required field"
	default:
		errs["tipo"] = "must be PF or PJ"
	}

	required("razaoSocialNome", f.Name)
	required("nomeContato", f.ContactName)
	required("logradouro", f.Street)
	required("numero", f.Number)
	required("bairro", f.District)
	required("cidade", f.City)

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "required field"
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "invalid e-mail"
	}

	if phone := Digits(f.Phone); phone == "" {
		errs["telefone"] = "required field"
	} else if len(phone) != 10 && len(phone) != 11 {
		errs["telefone"] = "must have 10 or 11 digits"
	}

	if f.CEP == "" {
		errs["cep"] = "required field"
	} else if len(Digits(f.CEP)) != 8 {
		errs["cep"] = "must have 8 digits"
	}

	if f.State == "" {
		errs["uf"] = "required field"
	} else if !validUF[strings.ToUpper(f.State)] {
		errs["uf"] = "unknown state"
	}

	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		errs["latitude"] = "must be between -90 and 90"
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		errs["longitude"] = "must be between -180 and 180"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Customer builds the record for id. The trade name is dropped for individuals.
func (f Form) Customer(id string, createdAt time.Time) Customer {
	trade := strings.TrimSpace(f.TradeName)
	if f.Kind != KindCompany {
		trade = ""
	}
	return Customer{
		ID:          id,
		Kind:        f.Kind,
		Document:    FormatDocument(f.Document),
		Name:        strings.TrimSpace(f.Name),
		TradeName:   trade,
		ContactName: strings.TrimSpace(f.ContactName),
		Email:       strings.TrimSpace(f.Email),
		Phone:       strings.TrimSpace(f.Phone),
		Address: Address{
			CEP:          Digits(f.CEP),
			Street:       strings.TrimSpace(f.Street),
			Number:       strings.TrimSpace(f.Number),
			Neighborhood: strings.TrimSpace(f.District),
			Region:       strings.TrimSpace(f.Region),
			City:         strings.TrimSpace(f.City),
			State:        strings.ToUpper(strings.TrimSpace(f.State)),
		},
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		Active:    f.Active,
		CreatedAt: createdAt,
	}
}

var validUF = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}
