package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// RenderPDF produces the A4 warehouse report document with a QR code
// carrying the share summary.
func RenderPDF(r Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	symbol := translate(r.Currency.Symbol())

	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 12, "WAX PRO", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "INVENTORY REPORT", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, r.GeneratedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.SetTextColor(0, 0, 0)

	// Summary boxes
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, fmt.Sprintf("Total profit: %s %.2f", symbol, r.Totals.Profit), "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, fmt.Sprintf("Total stock: %d pcs", r.Totals.Stock), "1", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(75, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Stock", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Returns %", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("Profit (%s)", symbol), "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, line := range r.Lines {
		pdf.CellFormat(75, 7, translate(line.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", line.Stock), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.1f", line.ReturnRate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 7, fmt.Sprintf("%.2f", line.Profit), "1", 1, "R", false, 0, "")
	}

	if len(r.Lines) > 0 {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(75, 8, "GRAND TOTAL", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", r.Totals.Stock), "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 8, "", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", r.Totals.Profit), "1", 1, "R", true, 0, "")
	} else {
		pdf.CellFormat(180, 10, "No data available", "1", 1, "C", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(0, 4, "Profit is computed as selling price minus production cost, multiplied by units actually sold (gross sales minus returns).", "", "L", false)
	pdf.SetTextColor(0, 0, 0)

	// Share QR: scanning it yields the text summary
	qrPng, err := qrcode.Encode(ShareText(r), qrcode.Low, 256)
	if err == nil {
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		_ = pdf.RegisterImageOptionsReader("share_qr", imgOptions, bytes.NewReader(qrPng))
		pdf.Ln(4)
		pdf.ImageOptions("share_qr", 15, pdf.GetY(), 30, 30, false, imgOptions, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	return buf.Bytes(), nil
}
