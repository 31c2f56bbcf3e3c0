package catalog

import (
	"fmt"
	"os"

	"gameon/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// UnknownZoneName is shown for bills whose zone is no longer in the catalog.
const UnknownZoneName = "Unknown Zone"

// MaxDurationHours bounds the generated duration slots.
const MaxDurationHours = 24

// Catalog is the read-only reference data used when billing. It is built once
// at startup and never mutated afterwards.
type Catalog struct {
	zones     []model.GameZone
	tiers     []model.PricingTier
	durations []model.DurationOption

	zoneByID  map[string]model.GameZone
	tierByID  map[string]model.PricingTier
	hoursByID map[int]model.DurationOption
}

// New builds a catalog and validates it. Durations are always the 24
// consecutive hourly slots.
func New(zones []model.GameZone, tiers []model.PricingTier) (*Catalog, error) {
	c := &Catalog{
		zones:     append([]model.GameZone(nil), zones...),
		tiers:     append([]model.PricingTier(nil), tiers...),
		durations: DurationSlots(),
		zoneByID:  make(map[string]model.GameZone, len(zones)),
		tierByID:  make(map[string]model.PricingTier, len(tiers)),
		hoursByID: make(map[int]model.DurationOption, MaxDurationHours),
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("catalog: at least one game zone is required")
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("catalog: at least one pricing tier is required")
	}
	for _, z := range zones {
		if z.ID == "" || z.Name == "" {
			return nil, fmt.Errorf("catalog: game zone needs both id and name")
		}
		if _, dup := c.zoneByID[z.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate game zone id %q", z.ID)
		}
		c.zoneByID[z.ID] = z
	}
	for _, t := range tiers {
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: pricing tier needs an id")
		}
		if t.PlayerCount < 1 {
			return nil, fmt.Errorf("catalog: tier %q must allow at least one player", t.ID)
		}
		if t.PricePerPersonPerHour.IsNegative() {
			return nil, fmt.Errorf("catalog: tier %q has a negative price", t.ID)
		}
		if _, dup := c.tierByID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate pricing tier id %q", t.ID)
		}
		c.tierByID[t.ID] = t
	}
	for _, d := range c.durations {
		c.hoursByID[d.Hours] = d
	}
	return c, nil
}

// Default returns the lounge's built-in zones and price list.
func Default() *Catalog {
	c, err := New(
		[]model.GameZone{
			{ID: "ps5", Name: "PlayStation 5"},
			{ID: "pc", Name: "PC Gaming"},
		},
		[]model.PricingTier{
			{ID: "single", PlayerCount: 1, PricePerPersonPerHour: decimal.NewFromInt(90), Label: "Single Player (₹90/hr)"},
			{ID: "dual", PlayerCount: 2, PricePerPersonPerHour: decimal.NewFromInt(80), Label: "Dual Player (₹80/person/hr)"},
			{ID: "quad", PlayerCount: 4, PricePerPersonPerHour: decimal.NewFromInt(70), Label: "4 Players (₹70/person/hr)"},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// DurationSlots generates the hourly options 1..24.
func DurationSlots() []model.DurationOption {
	slots := make([]model.DurationOption, 0, MaxDurationHours)
	for h := 1; h <= MaxDurationHours; h++ {
		label := fmt.Sprintf("%d Hours", h)
		if h == 1 {
			label = "1 Hour"
		}
		slots = append(slots, model.DurationOption{Hours: h, Label: label})
	}
	return slots
}

type fileCatalog struct {
	Zones []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"zones"`
	Tiers []struct {
		ID      string `yaml:"id"`
		Players int    `yaml:"players"`
		Price   string `yaml:"price_per_person_per_hour"`
		Label   string `yaml:"label"`
	} `yaml:"tiers"`
}

// Parse reads a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}

	zones := make([]model.GameZone, 0, len(fc.Zones))
	for _, z := range fc.Zones {
		zones = append(zones, model.GameZone{ID: z.ID, Name: z.Name})
	}
	tiers := make([]model.PricingTier, 0, len(fc.Tiers))
	for _, t := range fc.Tiers {
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog: tier %q price %q: %w", t.ID, t.Price, err)
		}
		label := t.Label
		if label == "" {
			label = fmt.Sprintf("%d Player(s) (₹%s/person/hr)", t.Players, price.String())
		}
		tiers = append(tiers, model.PricingTier{
			ID:                    t.ID,
			PlayerCount:           t.Players,
			PricePerPersonPerHour: price,
			Label:                 label,
		})
	}
	return New(zones, tiers)
}

// Load returns the catalog at path, or Default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

func (c *Catalog) Zones() []model.GameZone {
	return append([]model.GameZone(nil), c.zones...)
}

func (c *Catalog) Tiers() []model.PricingTier {
	return append([]model.PricingTier(nil), c.tiers...)
}

func (c *Catalog) Durations() []model.DurationOption {
	return append([]model.DurationOption(nil), c.durations...)
}

func (c *Catalog) Zone(id string) (model.GameZone, bool) {
	z, ok := c.zoneByID[id]
	return z, ok
}

func (c *Catalog) Tier(id string) (model.PricingTier, bool) {
	t, ok := c.tierByID[id]
	return t, ok
}

func (c *Catalog) Duration(hours int) (model.DurationOption, bool) {
	d, ok := c.hoursByID[hours]
	return d, ok
}

// ZoneName resolves a zone id to its display name, degrading to
// UnknownZoneName for ids that are not in the catalog.
func (c *Catalog) ZoneName(id string) string {
	if z, ok := c.zoneByID[id]; ok {
		return z.Name
	}
	return UnknownZoneName
}
