// AngelaMos | 2026
// receipt.go

package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

const ContentType = "application/pdf"

// Document is everything printed on a payment receipt.
type Document struct {
	BookingID      string
	ServiceName    string
	RequesterEmail string
	Location       string
	Date           time.Time
	DecoratorName  string
	Status         string
	Amount         decimal.Decimal
	Currency       string
	TransactionRef string
	PaidAt         time.Time
	IssuedAt       time.Time
}

func (d Document) Validate() error {
	if d.BookingID == "" {
		return fmt.Errorf("receipt: booking id is required")
	}
	if d.TransactionRef == "" {
		return fmt.Errorf("receipt: transaction reference is required")
	}
	return nil
}

// Filename is the attachment name offered to the browser.
func (d Document) Filename() string {
	return fmt.Sprintf("receipt-%s.pdf", d.BookingID)
}

// Render lays out a single A4 page. The QR code encodes the transaction
// reference so support can look the payment up from a printout.
func Render(doc Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	qr, err := qrcode.Encode(doc.TransactionRef, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Booking receipt "+doc.BookingID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "PAYMENT RECEIPT")
	pdf.Ln(14)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	top := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, top, 120, 58, "F")

	pdf.SetXY(20, top+6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "BOOKING")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	writeLine(pdf, "Booking ID", doc.BookingID)
	writeLine(pdf, "Service", doc.ServiceName)
	writeLine(pdf, "Date", doc.Date.Format("2006-01-02"))
	writeLine(pdf, "Location", doc.Location)
	if doc.DecoratorName != "" {
		writeLine(pdf, "Decorator", doc.DecoratorName)
	}
	writeLine(pdf, "Status", doc.Status)

	pdf.RegisterImageOptionsReader(
		"qr",
		gofpdf.ImageOptions{ImageType: "png"},
		bytes.NewReader(qr),
	)
	pdf.ImageOptions("qr", 145, top+4, 45, 0, false,
		gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(top + 66)
	drawSectionTitle(pdf, "PAYMENT")
	pdf.SetFont("Helvetica", "", 11)
	writeLine(pdf, "Paid by", doc.RequesterEmail)
	writeLine(pdf, "Amount", fmt.Sprintf("%s %s",
		doc.Amount.StringFixed(2), strings.ToUpper(doc.Currency)))
	writeLine(pdf, "Transaction", doc.TransactionRef)
	writeLine(pdf, "Paid at", doc.PaidAt.UTC().Format(time.RFC1123))

	pdf.SetY(280)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6,
		"Issued "+doc.IssuedAt.UTC().Format(time.RFC3339),
		"", 0, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write receipt: %w", err)
	}

	return buf.Bytes(), nil
}

func writeLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetX(20)
	pdf.Cell(0, 7, fmt.Sprintf("%s: %s", label, value))
	pdf.Ln(6)
}

func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(4)
}
