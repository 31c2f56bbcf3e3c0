package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted bills carry amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentMethod is how a bill was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCard PaymentMethod = "Card"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

// Bill is the immutable record of one paid gaming session. Timestamps are
// milliseconds since the Unix epoch.
type Bill struct {
	ID                    string          `json:"id"`
	CustomerName          string          `json:"customerName"`
	AdditionalPlayerNames []string        `json:"additionalPlayerNames"`
	ContactNumber         string          `json:"contactNumber"`
	Address               string          `json:"address"`
	Age                   int             `json:"age"`
	GameZoneID            string          `json:"gameZoneId"`
	StartTime             int64           `json:"startTime"`
	EndTime               int64           `json:"endTime"`
	DurationMinutes       int             `json:"durationMinutes"`
	NumberOfPlayers       int             `json:"numberOfPlayers"`
	PricePerPersonPerHour decimal.Decimal `json:"pricePerPersonPerHour"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Discount              decimal.Decimal `json:"discount"`
	FinalAmount           decimal.Decimal `json:"finalAmount"`
	PaymentMethod         PaymentMethod   `json:"paymentMethod"`
	CreatedAt             int64           `json:"createdAt"`
	CreatedBy             string          `json:"createdBy"`
}

// Created returns CreatedAt as a time in loc.
func (b Bill) Created(loc *time.Location) time.Time {
	return time.UnixMilli(b.CreatedAt).In(loc)
}

// DurationHours is the session length in hours, possibly fractional.
func (b Bill) DurationHours() float64 {
	return float64(b.DurationMinutes) / 60
}
