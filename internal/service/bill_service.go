package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"gameon/internal/catalog"
	"gameon/internal/metrics"
	"gameon/internal/model"
	"gameon/internal/pubsub"
	"gameon/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BillInput is what the billing form submits. Tier and duration are chosen
// by stable id, never by list position.
type BillInput struct {
	CustomerName          string
	AdditionalPlayerNames []string
	ContactNumber         string
	Address               string
	Age                   int
	GameZoneID            string
	TierID                string
	DurationHours         int
	Discount              decimal.Decimal
	PaymentMethod         model.PaymentMethod
}

// BillService creates, lists and deletes bills.
type BillService interface {
	Create(ctx context.Context, sess *model.Session, in BillInput) (*model.Bill, error)
	Get(ctx context.Context, sess *model.Session, id string) (*model.Bill, error)
	List(ctx context.Context, sess *model.Session, f BillFilter) ([]model.Bill, error)
	Delete(ctx context.Context, sess *model.Session, id string) error
	Stats(ctx context.Context, sess *model.Session) (*DailyStats, error)
}

type billService struct {
	mu        sync.Mutex
	repo      repository.BillRepository
	catalog   *catalog.Catalog
	loc       *time.Location
	publisher pubsub.Publisher
	topic     string
	metrics   *metrics.Recorder
	now       func() time.Time
	logger    zerolog.Logger
}

func NewBillService(
	repo repository.BillRepository,
	cat *catalog.Catalog,
	loc *time.Location,
	publisher pubsub.Publisher,
	topic string,
	recorder *metrics.Recorder,
	logger zerolog.Logger,
) BillService {
	if publisher == nil {
		publisher = pubsub.NopPublisher{}
	}
	return &billService{
		repo:      repo,
		catalog:   cat,
		loc:       loc,
		publisher: publisher,
		topic:     topic,
		metrics:   recorder,
		now:       time.Now,
		logger:    logger.With().Str("service", "BillService").Logger(),
	}
}

// Create prices the session from the catalog, assigns the next sequential
// id and appends the bill.
func (s *billService) Create(ctx context.Context, sess *model.Session, in BillInput) (*model.Bill, error) {
	if err := checkAccess(sess, ActionViewBillingForm); err != nil {
		return nil, err
	}
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" || in.Age <= 0 {
		return nil, ErrMissingCustomer
	}
	if _, ok := s.catalog.Zone(in.GameZoneID); !ok {
		return nil, ErrUnknownZone
	}
	tier, ok := s.catalog.Tier(in.TierID)
	if !ok {
		return nil, ErrUnknownTier
	}
	duration, ok := s.catalog.Duration(in.DurationHours)
	if !ok {
		return nil, ErrUnknownDuration
	}
	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}
	if in.Discount.IsNegative() {
		return nil, ErrNegativeDiscount
	}

	total := ComputeSessionCost(tier, duration)
	durationMinutes := duration.Hours * 60

	s.mu.Lock()
	defer s.mu.Unlock()

	bills, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load bills")
		return nil, err
	}

	now := s.now().UnixMilli()
	bill := model.Bill{
		ID:                    NextSequentialID(bills),
		CustomerName:          customer,
		AdditionalPlayerNames: fitPlayerNames(in.AdditionalPlayerNames, tier.PlayerCount-1),
		ContactNumber:         in.ContactNumber,
		Address:               in.Address,
		Age:                   in.Age,
		GameZoneID:            in.GameZoneID,
		StartTime:             now,
		EndTime:               now + int64(durationMinutes)*60*1000,
		DurationMinutes:       durationMinutes,
		NumberOfPlayers:       tier.PlayerCount,
		PricePerPersonPerHour: tier.PricePerPersonPerHour,
		TotalAmount:           total,
		Discount:              in.Discount,
		FinalAmount:           ComputeFinalAmount(total, in.Discount),
		PaymentMethod:         in.PaymentMethod,
		CreatedAt:             now,
		CreatedBy:             sess.UserID(),
	}

	if err := s.repo.Save(ctx, append(bills, bill)); err != nil {
		s.logger.Error().Err(err).Str("bill_id", bill.ID).Msg("Failed to save bills")
		return nil, err
	}

	s.logger.Info().
		Str("bill_id", bill.ID).
		Str("zone", bill.GameZoneID).
		Str("final_amount", bill.FinalAmount.StringFixed(2)).
		Str("created_by", bill.CreatedBy).
		Msg("Bill created")
	s.metrics.BillCreated(bill.GameZoneID, string(bill.PaymentMethod), bill.FinalAmount.InexactFloat64())
	s.publish(ctx, pubsub.EventBillCreated, bill, sess.UserID())

	return &bill, nil
}

func (s *billService) Get(ctx context.Context, sess *model.Session, id string) (*model.Bill, error) {
	if err := checkAccess(sess, ActionViewRecords); err != nil {
		return nil, err
	}
	bills, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		if bills[i].ID == id {
			return &bills[i], nil
		}
	}
	return nil, ErrBillNotFound
}

func (s *billService) List(ctx context.Context, sess *model.Session, f BillFilter) ([]model.Bill, error) {
	if err := checkAccess(sess, ActionViewRecords); err != nil {
		return nil, err
	}
	bills, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBills(bills, f, s.loc), nil
}

// Delete removes the bill with id. Deleting an id that does not exist is not
// an error.
func (s *billService) Delete(ctx context.Context, sess *model.Session, id string) error {
	if err := checkAccess(sess, ActionDeleteBill); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bills, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Bill, 0, len(bills))
	var removed *model.Bill
	for i := range bills {
		if bills[i].ID == id && removed == nil {
			removed = &bills[i]
			continue
		}
		kept = append(kept, bills[i])
	}
	if removed == nil {
		return nil
	}
	if err := s.repo.Save(ctx, kept); err != nil {
		s.logger.Error().Err(err).Str("bill_id", id).Msg("Failed to save bills after delete")
		return err
	}

	s.logger.Info().Str("bill_id", id).Str("deleted_by", sess.UserID()).Msg("Bill deleted")
	s.metrics.BillDeleted()
	s.publish(ctx, pubsub.EventBillDeleted, *removed, sess.UserID())
	return nil
}

func (s *billService) Stats(ctx context.Context, sess *model.Session) (*DailyStats, error) {
	if err := checkAccess(sess, ActionViewAdminDashboard); err != nil {
		return nil, err
	}
	bills, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeDailyStats(bills, s.catalog, s.now(), s.loc)
	return &stats, nil
}

func (s *billService) load(ctx context.Context) ([]model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Load(ctx)
}

// publish reports a bill event. The bill is already saved, so failures are
// only logged.
func (s *billService) publish(ctx context.Context, eventType string, b model.Bill, actorID string) {
	if s.topic == "" {
		return
	}
	payload, err := pubsub.NewBillEvent(eventType, b, actorID).Encode()
	if err != nil {
		s.logger.Error().Err(err).Str("bill_id", b.ID).Msg("Failed to encode bill event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.topic, payload); err != nil {
		s.logger.Warn().Err(err).Str("bill_id", b.ID).Str("event", eventType).Msg("Failed to publish bill event")
	}
}

// fitPlayerNames pads or truncates names to exactly n entries.
func fitPlayerNames(names []string, n int) []string {
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	copy(out, names)
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}
