package model

import "github.com/shopspring/decimal"

// GameZone is a physical station category such as a console or PC area.
type GameZone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PricingTier is a selectable player count with its per-person hourly rate.
type PricingTier struct {
	ID                    string          `json:"id"`
	PlayerCount           int             `json:"playerCount"`
	PricePerPersonPerHour decimal.Decimal `json:"pricePerPersonPerHour"`
	Label                 string          `json:"label"`
}

// DurationOption is a bookable session length. Hours doubles as its id.
type DurationOption struct {
	Hours int    `json:"hours"`
	Label string `json:"label"`
}
