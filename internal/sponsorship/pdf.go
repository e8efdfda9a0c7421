package sponsorship

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/beledshul/sponsorship/internal"
)

// RenderReceiptPDF lays the same receipt fields onto a printable A4 page.
// The text receipt stays the canonical artifact; this is the printer-
// friendly rendering of it.
func RenderReceiptPDF(org internal.OrganizationConfig, s *Sponsorship, expenseName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, org.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		org.Address,
		org.City,
		"Phone: " + org.Phone,
		"Email: " + org.Email,
		"Tax ID: " + org.TaxID,
	} {
		pdf.CellFormat(0, 5, line, "", 1, "C", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "TAX RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	body := BuildReceipt(org, s, expenseName)
	// Skip the header block and banner already rendered above.
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if i < 9 {
			continue
		}
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
