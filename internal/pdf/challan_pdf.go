// Package pdf renders challans as printable A4 documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/jung-kurt/gofpdf/v2"
)

// Renderer produces PDF documents from challan models
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderChallan renders the challan as an A4 PDF
func (r *Renderer) RenderChallan(challan *domain.Challan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	title := challan.FirmName
	if title == "" {
		title = "Delivery Challan"
	}
	pdf.CellFormat(190, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if challan.FirmGSTIN != "" {
		pdf.CellFormat(190, 6, fmt.Sprintf("GSTIN: %s", challan.FirmGSTIN), "", 1, "C", false, 0, "")
	}
	if challan.FirmPAN != "" {
		pdf.CellFormat(190, 6, fmt.Sprintf("PAN: %s", challan.FirmPAN), "", 1, "C", false, 0, "")
	}
	if challan.FirmContact != "" {
		pdf.CellFormat(190, 6, fmt.Sprintf("Contact: %s", challan.FirmContact), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, "DELIVERY CHALLAN", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Challan metadata box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Challan No: %s", challan.ChallanNo), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", challan.Date.Format("02-Jan-2006")), "1", 1, "L", false, 0, "")
	if challan.PONumber != "" || challan.PODate != nil {
		poDate := ""
		if challan.PODate != nil {
			poDate = challan.PODate.Format("02-Jan-2006")
		}
		pdf.CellFormat(95, 7, fmt.Sprintf("PO Number: %s", challan.PONumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("PO Date: %s", poDate), "1", 1, "L", false, 0, "")
	}
	if challan.VehicleNo != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Vehicle No: %s", challan.VehicleNo), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Customer block
	name, address, gstin := customerBlock(challan)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Consignee", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 7, fmt.Sprintf("Name: %s", name), "LR", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Address: %s", address), "LR", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("GSTIN: %s", gstin), "LRB", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(83, 7, "Particulars", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "HSN", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Rate", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range challan.Items {
		particulars := item.Particulars
		if runes := []rune(particulars); len(runes) > 45 {
			particulars = string(runes[:42]) + "..."
		}
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", item.Position), "1", 0, "C", false, 0, "")
		pdf.CellFormat(83, 6, particulars, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, item.HSNCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, item.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, item.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(140, 7, "Sub Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 7, challan.SubTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(140, 7, fmt.Sprintf("GST @ %s%%", challan.TaxPercentage.String()), "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 7, challan.TaxAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(140, 8, "Grand Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(50, 8, challan.GrandTotal.StringFixed(2), "1", 1, "R", true, 0, "")
	pdf.Ln(8)

	// Footer
	pdf.SetFont("Arial", "", 10)
	if challan.EOE != "" {
		pdf.CellFormat(190, 6, challan.EOE, "", 1, "L", false, 0, "")
		pdf.Ln(6)
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Receiver's Sign: %s", challan.ReceiverSign), "T", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Issued By: %s", challan.IssuedBy), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render challan pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// customerBlock picks the current customer record for referenced
// challans and the stored snapshot otherwise
func customerBlock(challan *domain.Challan) (name, address, gstin string) {
	if challan.HasCustomerRef() && challan.Customer != nil {
		return challan.Customer.Name, challan.Customer.FirmAddress, challan.Customer.GSTIN
	}
	return challan.CustomerName, challan.CustomerAddress, challan.CustomerGSTIN
}
