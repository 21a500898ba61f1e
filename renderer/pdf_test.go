package renderer

import (
	"bytes"
	"fmt"
	"testing"

	"invoice-docstore/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acme() *core.Invoice {
	return &core.Invoice{
		Client: "ACME",
		TaxID:  "123",
		Items:  []core.LineItem{{Description: "widget", Quantity: 2, Price: 9.5}},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := NewPDF().Render(acme())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(bytes.TrimSpace(data[len(data)-16:])), "%%EOF")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewPDF()
	first, err := r.Render(acme())
	require.NoError(t, err)
	second, err := r.Render(acme())
	require.NoError(t, err)
	assert.Equal(t, core.HashDocument(first), core.HashDocument(second))
}

func TestRenderDiffersByContent(t *testing.T) {
	r := NewPDF()
	a, err := r.Render(acme())
	require.NoError(t, err)

	other := acme()
	other.Items[0].Quantity = 3
	b, err := r.Render(other)
	require.NoError(t, err)
	assert.NotEqual(t, core.HashDocument(a), core.HashDocument(b))
}

func TestRenderWithoutItems(t *testing.T) {
	inv := acme()
	inv.Items = nil
	data, err := NewPDF().Render(inv)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderManyItemsAddsPages(t *testing.T) {
	inv := acme()
	for i := 0; i < 120; i++ {
		inv.Items = append(inv.Items, core.LineItem{Description: fmt.Sprintf("item %d", i), Quantity: 1, Price: 1})
	}
	data, err := NewPDF().Render(inv)
	require.NoError(t, err)
	pages := bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
	assert.GreaterOrEqual(t, pages, 2)
}

func TestRenderNonASCII(t *testing.T) {
	inv := acme()
	inv.Client = "Compañía Señor Ñandú"
	inv.Items[0].Description = "café"
	_, err := NewPDF().Render(inv)
	require.NoError(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", NewPDF().ContentType())
}
