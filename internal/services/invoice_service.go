package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"garageclient/internal/domain"
	"garageclient/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// InvoiceService renders PDF invoices for repair orders. Data loading is
// injected so the service works against the in-memory state or any other
// source.
type InvoiceService struct {
	RequestID string
	Loader    func(repairID string) (InvoiceData, error)
}

// InvoiceLine is one billed row on the invoice.
type InvoiceLine struct {
	Description string
	Quantity    int
	UnitPrice   float64
}

// InvoiceData carries everything the PDF needs, already denormalized.
type InvoiceData struct {
	RepairID    string
	Date        string
	Status      string
	Technician  string
	PlateNumber string
	VehicleName string
	OwnerName   string
	OwnerPhone  string
	Lines       []InvoiceLine
	LaborCost   float64
	Notes       string
}

// Total sums line amounts plus labor.
func (d InvoiceData) Total() float64 {
	total := d.LaborCost
	for _, l := range d.Lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}

// Generate builds the invoice PDF and a download filename.
func (s InvoiceService) Generate(repairID string) ([]byte, string, error) {
	if s.Loader == nil {
		return nil, "", domain.InternalError{Msg: "invoice loader not configured"}
	}
	data, err := s.Loader(repairID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "invoice", "generate", "repair_id="+repairID)
	return buildInvoicePDF(data)
}

func buildInvoicePDF(d InvoiceData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-%s", utils.SafeFilenamePart(shortID(d.RepairID)))
	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		"Invoice No  : " + invNo,
		"Issued      : " + time.Now().Format("2006-01-02 15:04"),
		"Order Date  : " + safe(d.Date, "-"),
		"Status      : " + safe(d.Status, "-"),
		"Technician  : " + safe(d.Technician, "-"),
		"Vehicle     : " + safe(strings.TrimSpace(d.VehicleName+" "+d.PlateNumber), "-"),
		"Customer    : " + safe(d.OwnerName, "-"),
		"Phone       : " + safe(d.OwnerPhone, "-"),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range d.Lines {
		amount := float64(l.Quantity) * l.UnitPrice
		pdf.CellFormat(90, 8, safe(l.Description, "-"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", l.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatCurrency(l.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatCurrency(amount), "1", 1, "R", false, 0, "")
	}
	if d.LaborCost > 0 {
		pdf.CellFormat(145, 8, "Labor", "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatCurrency(d.LaborCost), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(145, 9, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, utils.FormatCurrency(d.Total()), "1", 1, "R", false, 0, "")

	if strings.TrimSpace(d.Notes) != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+d.Notes, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%s.pdf", utils.SafeFilenamePart(shortID(d.RepairID)))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "NA"
	}
	return id
}
