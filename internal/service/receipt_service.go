package service

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gameon/internal/catalog"
	"gameon/internal/model"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	receiptDateLayout = "Jan 2, 2006"
	receiptTimeLayout = "3:04 PM"

	// receiptWidth matches the 80mm thermal roll the counter printer uses.
	receiptWidth = 302.0
)

// Venue is printed at the top of every receipt.
type Venue struct {
	Name    string
	Address string
}

// ReceiptLine is one row of the item table.
type ReceiptLine struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
	Detail bool   `json:"detail,omitempty"`
	Strong bool   `json:"strong,omitempty"`
}

// Receipt is the printable view of a bill. Optional fields are empty when
// they should be left off the page.
type Receipt struct {
	VenueName     string        `json:"venueName"`
	VenueAddress  string        `json:"venueAddress"`
	BillID        string        `json:"billId"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Players       string        `json:"players"`
	PayerAge      int           `json:"payerAge"`
	Contact       string        `json:"contact,omitempty"`
	Address       string        `json:"address,omitempty"`
	Lines         []ReceiptLine `json:"lines"`
	PaymentMethod string        `json:"paymentMethod"`
	Footer        []string      `json:"footer"`
}

// ReceiptFilename is the download name of a bill's PDF receipt.
func ReceiptFilename(billID string) string {
	return "receipt-" + billID + ".pdf"
}

// BuildReceipt lays out b for printing.
func BuildReceipt(b model.Bill, cat *catalog.Catalog, venue Venue, loc *time.Location) Receipt {
	created := b.Created(loc)
	r := Receipt{
		VenueName:     venue.Name,
		VenueAddress:  venue.Address,
		BillID:        b.ID,
		Date:          created.Format(receiptDateLayout),
		Time:          created.Format(receiptTimeLayout),
		Players:       PlayerNames(b),
		PayerAge:      b.Age,
		PaymentMethod: string(b.PaymentMethod),
		Footer:        []string{"Thank you for playing!", "Visit us again."},
	}
	if b.ContactNumber != "" {
		r.Contact = fmt.Sprintf("%s (%s)", b.ContactNumber, b.CustomerName)
	}
	if b.Address != "" {
		r.Address = b.Address
	}

	r.Lines = []ReceiptLine{
		{Label: cat.ZoneName(b.GameZoneID)},
		{
			Label:  fmt.Sprintf("%d Player(s) x %s hr(s)", b.NumberOfPlayers, strconv.FormatFloat(b.DurationHours(), 'f', -1, 64)),
			Amount: "@ ₹" + b.PricePerPersonPerHour.StringFixed(2) + "/hr",
			Detail: true,
		},
		{Label: "Subtotal", Amount: "₹" + b.TotalAmount.StringFixed(2), Strong: true},
	}
	if b.Discount.IsPositive() {
		r.Lines = append(r.Lines, ReceiptLine{Label: "Discount", Amount: "- ₹" + b.Discount.StringFixed(2)})
	}
	r.Lines = append(r.Lines, ReceiptLine{Label: "Grand Total", Amount: "₹" + b.FinalAmount.StringFixed(2), Strong: true})
	return r
}

// RenderReceiptPDF writes r as a single narrow page with a QR code of the
// bill number.
func RenderReceiptPDF(w io.Writer, r Receipt) error {
	qrPNG, err := qrcode.Encode(r.BillID, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	const margin = 16.0
	const lineH = 12.0
	height := 330.0 + float64(len(r.Lines)+len(r.Footer))*lineH + float64(len(r.VenueAddress)/40)*lineH
	if r.Contact != "" {
		height += lineH
	}
	if r.Address != "" {
		height += lineH * float64(1+len(r.Address)/40)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: receiptWidth, Ht: height},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string {
		// Core fonts are cp1252, which has no rupee sign.
		return tr(strings.ReplaceAll(s, "₹", "Rs."))
	}
	width := receiptWidth - 2*margin

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(239, 68, 68)
	pdf.CellFormat(width, 22, text(r.VenueName), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 8)
	pdf.MultiCell(width, 10, text(r.VenueAddress), "", "C", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 9)
	pair := func(label, value string) {
		pdf.CellFormat(width/2, lineH, text(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(width/2, lineH, text(value), "", 1, "R", false, 0, "")
	}
	pair("Bill No:", r.BillID)
	pair("Date:", r.Date)
	pair("Time:", r.Time)
	pdf.Ln(6)

	pdf.MultiCell(width, lineH, text("Players: "+r.Players), "", "L", false)
	pdf.CellFormat(width, lineH, text(fmt.Sprintf("Payer Age: %d", r.PayerAge)), "", 1, "L", false, 0, "")
	if r.Contact != "" {
		pdf.CellFormat(width, lineH, text("Contact: "+r.Contact), "", 1, "L", false, 0, "")
	}
	if r.Address != "" {
		pdf.MultiCell(width, lineH, text("Address: "+r.Address), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 9)
	pair("Item", "Amount")
	for _, l := range r.Lines {
		switch {
		case l.Strong:
			pdf.SetFont("Arial", "B", 9)
		case l.Detail:
			pdf.SetFont("Arial", "", 7)
		default:
			pdf.SetFont("Arial", "", 9)
		}
		pair(l.Label, l.Amount)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(width, lineH, text("Payment Method: "+r.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	qrSize := 72.0
	pdf.ImageOptions("qr", (receiptWidth-qrSize)/2, pdf.GetY(), qrSize, qrSize, true, imageOpts, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 7)
	pdf.SetTextColor(107, 114, 128)
	for _, f := range r.Footer {
		pdf.CellFormat(width, 10, text(f), "", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}
