package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"nanocart/internal/model"
)

// RenderInvoice arma el PDF de la factura en memoria.
func RenderInvoice(inv *model.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "NanoCart")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 6, fmt.Sprintf("Factura: %s", inv.InvoiceNumber))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Orden: %s", inv.OrderID.Hex()))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Fecha: %s", inv.IssuedAt.Format("2006-01-02")))
	doc.Ln(6)
	if inv.BuyerName != "" {
		doc.Cell(0, 6, fmt.Sprintf("Cliente: %s (%s)", inv.BuyerName, inv.BuyerPhone))
		doc.Ln(6)
	}
	doc.Ln(4)

	// Cabecera de la tabla
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(90, 7, "Artículo", "1", 0, "L", false, 0, "")
	doc.CellFormat(20, 7, "Cant.", "1", 0, "C", false, 0, "")
	doc.CellFormat(35, 7, "Precio", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, "Importe", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, line := range inv.Lines {
		doc.CellFormat(90, 7, line.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", line.Amount), "1", 1, "R", false, 0, "")
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(145, 7, "Subtotal", "", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, fmt.Sprintf("%.2f", inv.Subtotal), "", 1, "R", false, 0, "")
	if inv.Discount > 0 {
		doc.CellFormat(145, 7, "Descuento", "", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("-%.2f", inv.Discount), "", 1, "R", false, 0, "")
	}
	doc.CellFormat(145, 7, "Total", "", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, fmt.Sprintf("%.2f", inv.Total), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
