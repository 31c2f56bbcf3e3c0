package service

import (
	"context"
	"sync"
	"time"

	"gameon/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	adminSession = &model.Session{User: model.User{ID: "user-1", Username: "1111", Password: "1111", Role: model.RoleAdmin}, TokenID: "t-admin"}
	staffSession = &model.Session{User: model.User{ID: "user-2", Username: "staff", Password: "password", Role: model.RoleStaff}, TokenID: "t-staff"}
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func at(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC).UnixMilli()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// recordingPublisher keeps every payload it is asked to publish.
type recordingPublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return "msg-1", nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}
