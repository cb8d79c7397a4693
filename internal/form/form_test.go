package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyPage = `<!DOCTYPE html>
<html><body>
<form id="empresa" class="autofill-form">
  <input id="cnpj" value="">
  <input name="razao_social">
  <input id="nome_fantasia" value="Antigo">
  <input id="cep">
  <input id="logradouro">
  <textarea id="bairro"></textarea>
  <input id="cidade">
  <select id="estado"><option value="">--</option><option value="RJ">Rio de Janeiro</option><option value="SP">São Paulo</option></select>
  <button class="btn btn-primary" type="submit">Cadastrar</button>
  <button type="button" disabled>Limpar</button>
</form>
<form id="fornecedor" class="autofill-form">
  <input id="cep">
</form>
<form id="busca"><input name="q"></form>
</body></html>`

func firstForm(t *testing.T, html string) (*Page, *Form) {
	t.Helper()
	page, err := ParseString(html)
	require.NoError(t, err)
	forms := page.Forms()
	require.NotEmpty(t, forms)
	return page, forms[0]
}

func TestForms_DiscoversMarkedForms(t *testing.T) {
	page, err := ParseString(companyPage)
	require.NoError(t, err)

	forms := page.Forms()
	require.Len(t, forms, 2)
	assert.Equal(t, "empresa", forms[0].Name())
	assert.Equal(t, "fornecedor", forms[1].Name())
	assert.Equal(t, 1, forms[1].Index())
}

func TestForms_FallsBackToSingleForm(t *testing.T) {
	page, err := ParseString(`<form><input id="cep"></form><form><input id="cnpj"></form>`)
	require.NoError(t, err)

	forms := page.Forms()
	require.Len(t, forms, 1)
	assert.True(t, forms[0].Binding().Resolved(FieldCEP))
	assert.False(t, forms[0].Binding().Resolved(FieldCNPJ))
	assert.Equal(t, "form-0", forms[0].Name())
}

func TestForms_NoForm(t *testing.T) {
	page, err := ParseString(`<p>nothing here</p>`)
	require.NoError(t, err)
	assert.Empty(t, page.Forms())
}

func TestBinding_ResolvesIDThenName(t *testing.T) {
	_, f := firstForm(t, companyPage)

	for _, name := range CanonicalFields {
		assert.True(t, f.Binding().Resolved(name), name)
	}

	_, other := firstForm(t, `<form class="autofill-form"><input id="cep"></form>`)
	assert.False(t, other.Binding().Resolved(FieldLogradouro))
}

func TestBinding_EstadoFallsBackToUF(t *testing.T) {
	_, f := firstForm(t, `<form class="autofill-form"><input id="cep"><input id="uf"></form>`)

	require.True(t, f.Binding().Resolved(FieldEstado))
	assert.True(t, f.SetField(FieldEstado, "SP"))
	v, ok := f.Value(FieldEstado)
	assert.True(t, ok)
	assert.Equal(t, "SP", v)

	_, both := firstForm(t, `<form class="autofill-form"><input id="uf" value="x"><input id="estado"></form>`)
	require.True(t, both.SetField(FieldEstado, "RJ"))
	uf, _ := both.Value("uf")
	assert.Equal(t, "x", uf)
}

func TestSetField_WritesAndNotifies(t *testing.T) {
	_, f := firstForm(t, companyPage)

	var events []Event
	f.Listen(func(e Event) { events = append(events, e) })

	assert.True(t, f.SetField(FieldRazaoSocial, "ACME LTDA"))

	v, ok := f.Value(FieldRazaoSocial)
	assert.True(t, ok)
	assert.Equal(t, "ACME LTDA", v)
	assert.Equal(t, []Event{
		{Type: EventInput, Field: FieldRazaoSocial, Value: "ACME LTDA"},
		{Type: EventChange, Field: FieldRazaoSocial, Value: "ACME LTDA"},
	}, events)
}

func TestSetField_EmptyNeverOverwrites(t *testing.T) {
	_, f := firstForm(t, companyPage)

	notified := false
	f.Listen(func(Event) { notified = true })

	assert.False(t, f.SetField(FieldNomeFantasia, ""))
	v, _ := f.Value(FieldNomeFantasia)
	assert.Equal(t, "Antigo", v)
	assert.False(t, notified)

	// zero is a value
	assert.True(t, f.SetField(FieldNomeFantasia, "0"))
	v, _ = f.Value(FieldNomeFantasia)
	assert.Equal(t, "0", v)
}

func TestSetField_AbsentFieldIsNoop(t *testing.T) {
	_, f := firstForm(t, `<form><input id="cep"></form>`)

	assert.False(t, f.SetField(FieldLogradouro, "Rua A"))
	_, ok := f.Value(FieldLogradouro)
	assert.False(t, ok)
}

func TestSetField_TextareaAndSelect(t *testing.T) {
	_, f := firstForm(t, companyPage)

	f.SetField(FieldBairro, "Sé")
	v, _ := f.Value(FieldBairro)
	assert.Equal(t, "Sé", v)

	f.SetField(FieldEstado, "SP")
	v, _ = f.Value(FieldEstado)
	assert.Equal(t, "SP", v)

	// label match
	f.SetField(FieldEstado, "Rio de Janeiro")
	v, _ = f.Value(FieldEstado)
	assert.Equal(t, "RJ", v)

	// unknown option is added
	f.SetField(FieldEstado, "MG")
	v, _ = f.Value(FieldEstado)
	assert.Equal(t, "MG", v)
}

func TestSetRaw_DoesNotNotify(t *testing.T) {
	_, f := firstForm(t, companyPage)

	notified := false
	f.Listen(func(Event) { notified = true })

	assert.True(t, f.SetRaw(FieldCEP, "01001-000"))
	assert.False(t, notified)
	v, _ := f.Value(FieldCEP)
	assert.Equal(t, "01001-000", v)
}

func TestValues(t *testing.T) {
	_, f := firstForm(t, `<form><input id="cep" value="01001-000"><input name="cidade" value="São Paulo"></form>`)

	assert.Equal(t, map[string]string{
		FieldCEP:    "01001-000",
		FieldCidade: "São Paulo",
	}, f.Values())
}

func TestReport_ReplacesMessage(t *testing.T) {
	page, f := firstForm(t, companyPage)

	_, _, ok := f.Feedback()
	assert.False(t, ok)

	f.Report(SeverityInfo, "Buscando...")
	f.Report(SeverityError, "<b>falhou</b>")

	severity, msg, ok := f.Feedback()
	require.True(t, ok)
	assert.Equal(t, SeverityError, severity)
	assert.Equal(t, "<b>falhou</b>", msg)

	html, err := page.HTML()
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(html, "data-autofill-feedback"), "one region per form")
	assert.Contains(t, html, `aria-live="polite"`)
	assert.Contains(t, html, "&lt;b&gt;falhou&lt;/b&gt;")
	assert.NotContains(t, html, "Buscando")
}

func TestReport_ReusesExistingRegion(t *testing.T) {
	page, f := firstForm(t, `<form><div data-autofill-feedback class="feedback"></div></form>`)

	f.Report(SeveritySuccess, "ok")

	html, err := page.HTML()
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(html, "data-autofill-feedback"))
	severity, msg, _ := f.Feedback()
	assert.Equal(t, SeveritySuccess, severity)
	assert.Equal(t, "ok", msg)
}

func TestBusy_EnterLeave(t *testing.T) {
	page, f := firstForm(t, companyPage)

	assert.Equal(t, 1, f.DisabledControls())

	f.Enter()
	assert.True(t, f.Busy())
	assert.Equal(t, 2, f.DisabledControls())

	html, err := page.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `Cadastrar</button><span data-autofill-spinner="true"`)

	// a second Enter does not add another spinner
	f.Enter()
	html, _ = page.HTML()
	assert.Equal(t, 1, strings.Count(html, "data-autofill-spinner"))

	f.Leave()
	assert.False(t, f.Busy())
	// the control disabled by the page stays disabled
	assert.Equal(t, 1, f.DisabledControls())
}

func TestBusy_LeaveWithoutEnter(t *testing.T) {
	_, f := firstForm(t, companyPage)

	f.Leave()
	assert.False(t, f.Busy())
	assert.Equal(t, 1, f.DisabledControls())
}

func TestBusy_SpinnerWithoutControls(t *testing.T) {
	page, f := firstForm(t, `<form id="x"><input id="cep"></form>`)

	f.Enter()
	html, err := page.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `class="spinner"`)
	assert.True(t, f.Busy())

	f.Leave()
	html, _ = page.HTML()
	assert.NotContains(t, html, "spinner")
}

func TestParse_DecodesCharset(t *testing.T) {
	latin1 := "<form><input id=\"cidade\" value=\"S\xe3o Paulo\"></form>"

	page, err := Parse(strings.NewReader(latin1), "text/html; charset=iso-8859-1")
	require.NoError(t, err)

	forms := page.Forms()
	require.Len(t, forms, 1)
	v, _ := forms[0].Value(FieldCidade)
	assert.Equal(t, "São Paulo", v)
}
