package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/crm/internal/customer"
)

// CustomerForm renders the registration form. An empty id creates a new
// customer; otherwise the form edits the customer with that id.
func CustomerForm(id string, f customer.Form, errs customer.ValidationErrors) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<form id="customer-form" class="form-card" data-action="save"`)
		h.attr("data-id", id)
		h.raw(`><h2>`)
		if id == "" {
			h.text("Novo cliente")
		} else {
			h.text("Editar cliente " + id)
		}
		h.raw(`</h2>`)

		h.raw(`<fieldset class="kind"><legend>Tipo</legend>`)
		for _, k := range []customer.Kind{customer.KindIndividual, customer.KindCompany} {
			h.raw(`<label><input type="radio" name="tipo"`)
			h.attr("value", string(k))
			if f.Kind == k {
				h.raw(` checked`)
			}
			h.raw(`> `)
			h.text(k.Label())
			h.raw(`</label>`)
		}
		fieldError(h, errs, "tipo")
		h.raw(`</fieldset>`)

		documentLabel := "CPF/CNPJ"
		nameLabel := "Nome / Razão social"
		switch f.Kind {
		case customer.KindIndividual:
			documentLabel, nameLabel = "CPF", "Nome completo"
		case customer.KindCompany:
			documentLabel, nameLabel = "CNPJ", "Razão social"
		}
		input(h, errs, "documento", documentLabel, "text", f.Document)
		input(h, errs, "razaoSocialNome", nameLabel, "text", f.Name)
		if f.Kind == customer.KindCompany {
			input(h, errs, "nomeFantasia", "Nome fantasia", "text", f.TradeName)
		}
		input(h, errs, "nomeContato", "Nome do contato", "text", f.ContactName)
		input(h, errs, "email", "E-mail", "email", f.Email)
		input(h, errs, "telefone", "Telefone", "tel", f.Phone)

		h.raw(`<fieldset class="address"><legend>Endereço</legend>`)
		input(h, errs, "cep", "CEP", "text", f.CEP)
		input(h, errs, "logradouro", "Logradouro", "text", f.Street)
		input(h, errs, "numero", "Número", "text", f.Number)
		input(h, errs, "bairro", "Bairro", "text", f.District)
		input(h, errs, "regiao", "Região", "text", f.Region)
		input(h, errs, "cidade", "Cidade", "text", f.City)
		input(h, errs, "uf", "UF", "text", f.State)
		input(h, errs, "latitude", "Latitude", "text", formatCoord(f.Latitude))
		input(h, errs, "longitude", "Longitude", "text", formatCoord(f.Longitude))
		h.raw(`</fieldset>`)

		h.raw(`<label class="switch"><input type="checkbox" name="ativo" value="true"`)
		if f.Active {
			h.raw(` checked`)
		}
		h.raw(`> Ativo</label>`)

		h.raw(`<div class="form-actions"><button type="reset" data-action="reset">Limpar</button>`)
		h.raw(`<button type="submit" class="primary">Salvar</button></div></form>`)
	})
}

func input(h *html, errs customer.ValidationErrors, name, label, kind, value string) {
	h.raw(`<label class="field"><span>`)
	h.text(label)
	h.raw(`</span><input`)
	h.attr("type", kind)
	h.attr("name", name)
	h.attr("value", value)
	if _, bad := errs[name]; bad {
		h.raw(` aria-invalid="true"`)
	}
	h.raw(`>`)
	fieldError(h, errs, name)
	h.raw(`</label>`)
}

func fieldError(h *html, errs customer.ValidationErrors, name string) {
	msg, ok := errs[name]
	if !ok {
		return
	}
	h.raw(`<small class="field-error">`)
	h.text(msg)
	h.raw(`</small>`)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
