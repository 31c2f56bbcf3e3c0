package dto

import "github.com/shopspring/decimal"

// BillCreateDTO is used for incoming bill creation requests
type BillCreateDTO struct {
	CustomerName          string          `json:"customerName" validate:"required,max=100"`
	AdditionalPlayerNames []string        `json:"additionalPlayerNames" validate:"omitempty,max=10,dive,max=100"`
	ContactNumber         string          `json:"contactNumber" validate:"omitempty,max=20"`
	Address               string          `json:"address" validate:"max=500"`
	Age                   int             `json:"age" validate:"required,min=1,max=150"`
	GameZoneID            string          `json:"gameZoneId" validate:"required"`
	TierID                string          `json:"tierId" validate:"required"`
	DurationHours         int             `json:"durationHours" validate:"required,min=1,max=24"`
	Discount              decimal.Decimal `json:"discount"`
	PaymentMethod         string          `json:"paymentMethod" validate:"required,oneof=Cash UPI Card"`
}

// SignedURLResponseDTO represents a JSON response containing a signed download URL.
type SignedURLResponseDTO struct {
	URL string `json:"url"`
}
