package services

import (
	"bytes"
	"strings"
	"testing"

	"garageclient/internal/domain"
)

func sampleInvoice() InvoiceData {
	return InvoiceData{
		RepairID:    "3f6c2a9e-1b7d-4c11-9e42-aaa111bbb222",
		Date:        "2026-08-20",
		Status:      "done",
		Technician:  "Budi",
		PlateNumber: "B 1234 XYZ",
		VehicleName: "Toyota Avanza",
		OwnerName:   "Dewi Sartika",
		OwnerPhone:  "0812-0000-0000",
		Lines: []InvoiceLine{
			{Description: "Oil Filter", Quantity: 2, UnitPrice: 9.5},
			{Description: "Engine Oil 1L", Quantity: 4, UnitPrice: 12},
		},
		LaborCost: 50,
		Notes:     "Next service in 6 months.",
	}
}

func TestInvoiceDataTotal(t *testing.T) {
	d := sampleInvoice()
	// 2*9.5 + 4*12 + 50 labor
	if got := d.Total(); got != 117 {
		t.Fatalf("Total() = %v, want 117", got)
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	svc := InvoiceService{
		RequestID: "req-test",
		Loader: func(repairID string) (InvoiceData, error) {
			if repairID != "3f6c2a9e-1b7d-4c11-9e42-aaa111bbb222" {
				t.Fatalf("loader called with %q", repairID)
			}
			return sampleInvoice(), nil
		},
	}

	pdf, filename, err := svc.Generate("3f6c2a9e-1b7d-4c11-9e42-aaa111bbb222")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (starts with %q)", pdf[:min(8, len(pdf))])
	}
	if filename != "INVOICE_3f6c2a9e.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestGeneratePropagatesLoaderError(t *testing.T) {
	svc := InvoiceService{
		Loader: func(repairID string) (InvoiceData, error) {
			return InvoiceData{}, domain.NotFoundError{Resource: "repair", ID: repairID}
		},
	}

	_, _, err := svc.Generate("missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("loader error must pass through, got %v", err)
	}
}

func TestGenerateWithoutLoaderFails(t *testing.T) {
	_, _, err := InvoiceService{}.Generate("any")
	if err == nil || !strings.Contains(err.Error(), "loader") {
		t.Fatalf("missing loader must error, got %v", err)
	}
}

func TestGenerateShortIDFallback(t *testing.T) {
	svc := InvoiceService{
		Loader: func(string) (InvoiceData, error) {
			return InvoiceData{RepairID: "ab1"}, nil
		},
	}

	_, filename, err := svc.Generate("ab1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if filename != "INVOICE_ab1.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}
