package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gameon/internal/catalog"
	"gameon/internal/model"

	"github.com/shopspring/decimal"
)

// NoPopularZone is reported when no bill was created today.
const NoPopularZone = "N/A"

// DateLayout is the format of date filters and export filenames.
const DateLayout = "2006-01-02"

// ComputeSessionCost prices a session before discount.
func ComputeSessionCost(tier model.PricingTier, duration model.DurationOption) decimal.Decimal {
	return tier.PricePerPersonPerHour.
		Mul(decimal.NewFromInt(int64(tier.PlayerCount))).
		Mul(decimal.NewFromInt(int64(duration.Hours)))
}

// ComputeFinalAmount applies a discount. A discount larger than the total
// floors the result at zero instead of failing.
func ComputeFinalAmount(total, discount decimal.Decimal) decimal.Decimal {
	final := total.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// NextSequentialID returns one more than the largest numeric bill id.
// Ids that do not parse as decimal numbers are ignored. That includes hex
// and binary literals such as "0x10", which a JavaScript Number() would
// have accepted; such ids never come from this function.
func NextSequentialID(bills []model.Bill) string {
	highest := 0.0
	for _, b := range bills {
		n, err := strconv.ParseFloat(strings.TrimSpace(b.ID), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return strconv.FormatFloat(highest+1, 'f', -1, 64)
}

// PlayerNames joins the customer and additional players, skipping blanks.
func PlayerNames(b model.Bill) string {
	names := make([]string, 0, 1+len(b.AdditionalPlayerNames))
	for _, n := range append([]string{b.CustomerName}, b.AdditionalPlayerNames...) {
		if n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// DailyStats is the admin dashboard summary.
type DailyStats struct {
	TotalRevenueToday   decimal.Decimal `json:"totalRevenueToday"`
	BillsTodayCount     int             `json:"billsTodayCount"`
	MostPopularZoneName string          `json:"mostPopularZoneName"`
	TotalAllTimeRevenue decimal.Decimal `json:"totalAllTimeRevenue"`
}

// ComputeDailyStats summarises bills created on now's calendar date in loc.
// Zones are counted by display name; equal counts resolve to the
// lexically smallest name.
func ComputeDailyStats(bills []model.Bill, cat *catalog.Catalog, now time.Time, loc *time.Location) DailyStats {
	today := now.In(loc).Format(DateLayout)
	stats := DailyStats{
		TotalRevenueToday:   decimal.Zero,
		TotalAllTimeRevenue: decimal.Zero,
		MostPopularZoneName: NoPopularZone,
	}

	counts := map[string]int{}
	for _, b := range bills {
		stats.TotalAllTimeRevenue = stats.TotalAllTimeRevenue.Add(b.FinalAmount)
		if b.Created(loc).Format(DateLayout) != today {
			continue
		}
		stats.BillsTodayCount++
		stats.TotalRevenueToday = stats.TotalRevenueToday.Add(b.FinalAmount)
		counts[cat.ZoneName(b.GameZoneID)]++
	}

	best := 0
	for name, n := range counts {
		if n > best || (n == best && name < stats.MostPopularZoneName) {
			best = n
			stats.MostPopularZoneName = name
		}
	}
	return stats
}

// BillFilter narrows a bill listing. Empty fields match everything.
type BillFilter struct {
	Search string
	ZoneID string
	Date   string // YYYY-MM-DD in the venue's timezone
}

// Matches reports whether b passes every predicate of f.
func (f BillFilter) Matches(b model.Bill, loc *time.Location) bool {
	if f.Search != "" {
		nameHit := strings.Contains(strings.ToLower(PlayerNames(b)), strings.ToLower(f.Search))
		if !nameHit && !strings.Contains(b.ContactNumber, f.Search) {
			return false
		}
	}
	if f.ZoneID != "" && b.GameZoneID != f.ZoneID {
		return false
	}
	if f.Date != "" && b.Created(loc).Format(DateLayout) != f.Date {
		return false
	}
	return true
}

// FilterBills returns the matching bills newest first. The input slice is
// left untouched.
func FilterBills(bills []model.Bill, f BillFilter, loc *time.Location) []model.Bill {
	out := make([]model.Bill, 0, len(bills))
	for _, b := range bills {
		if f.Matches(b, loc) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
