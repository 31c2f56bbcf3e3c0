package service

import (
	"io"
	"strconv"
	"strings"
	"time"

	"gameon/internal/catalog"
	"gameon/internal/model"
)

// CSVDateLayout renders bill timestamps in exports.
const CSVDateLayout = "Jan 2, 2006, 3:04:05 PM"

var csvHeader = []string{
	"Bill ID", "Date", "Player Names", "Payer Age", "Address", "Contact", "Game Zone",
	"Total Players", "Duration (hr)", "Subtotal (₹)", "Discount (₹)", "Final (₹)", "Payment Method",
}

// ExportFilename names a CSV export taken at now.
func ExportFilename(now time.Time, loc *time.Location) string {
	return "billing_records_" + now.In(loc).Format(DateLayout) + ".csv"
}

// WriteBillsCSV writes the header and one row per bill, in the order given.
// Rows are separated by "\n" with no trailing newline.
func WriteBillsCSV(w io.Writer, bills []model.Bill, cat *catalog.Catalog, loc *time.Location) error {
	lines := make([]string, 0, len(bills)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, b := range bills {
		lines = append(lines, strings.Join(csvRow(b, cat, loc), ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func csvRow(b model.Bill, cat *catalog.Catalog, loc *time.Location) []string {
	return []string{
		b.ID,
		quoteCSV(b.Created(loc).Format(CSVDateLayout)),
		quoteCSV(PlayerNames(b)),
		strconv.Itoa(b.Age),
		quoteCSV(b.Address),
		escapeCSV(b.ContactNumber),
		escapeCSV(cat.ZoneName(b.GameZoneID)),
		strconv.Itoa(b.NumberOfPlayers),
		strconv.FormatFloat(b.DurationHours(), 'f', 1, 64),
		b.TotalAmount.StringFixed(2),
		b.Discount.StringFixed(2),
		ComputeFinalAmount(b.TotalAmount, b.Discount).StringFixed(2),
		string(b.PaymentMethod),
	}
}

// escapeCSV quotes s only when it holds a separator, quote or line break.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteCSV(s)
	}
	return s
}

// quoteCSV always wraps s in quotes and doubles embedded quotes.
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
