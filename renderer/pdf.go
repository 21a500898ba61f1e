// Package renderer lays out invoices as single column PDF documents.
package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"invoice-docstore/core"

	"github.com/go-pdf/fpdf"
)

const (
	pageHeight   = 792.0 // US Letter, points
	marginLeft   = 100.0
	firstLineTop = 42.0
	lineHeight   = 20.0
	marginBottom = 40.0
	fontSize     = 12.0
)

// epoch is stamped as creation and modification date so that identical
// invoices render to identical bytes.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type PDF struct{}

func NewPDF() *PDF {
	return &PDF{}
}

func (*PDF) ContentType() string {
	return "application/pdf"
}

// Render draws the client, tax ID, one line per item and the total.
func (p *PDF) Render(invoice *core.Invoice) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCreationDate(epoch)
	doc.SetModificationDate(epoch)
	doc.SetCatalogSort(true)
	doc.SetCompression(true)
	doc.SetAutoPageBreak(false, marginBottom)
	doc.SetTitle("Invoice "+invoice.TaxID, true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", fontSize)

	y := firstLineTop
	line := func(s string) {
		if y > pageHeight-marginBottom {
			doc.AddPage()
			y = firstLineTop
		}
		doc.Text(marginLeft, y, tr(s))
		y += lineHeight
	}

	line("Client: " + invoice.Client)
	line("Tax ID: " + invoice.TaxID)
	for _, item := range invoice.Items {
		line(fmt.Sprintf("%s - %s x %s = %s",
			item.Description, number(item.Quantity), number(item.Price), money(item.Subtotal())))
	}
	line("Total: " + money(invoice.Total()))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
