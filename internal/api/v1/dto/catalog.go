package dto

import "gameon/internal/model"

// CatalogResponseDTO lists everything the billing form can offer
type CatalogResponseDTO struct {
	Zones     []model.GameZone       `json:"zones"`
	Tiers     []model.PricingTier    `json:"tiers"`
	Durations []model.DurationOption `json:"durations"`
}
