package application

import (
	"context"
	"sync"
	"time"

	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type clientFunc func(ctx context.Context, model domain.ModelID, prompt string) (string, error)

func (f clientFunc) Call(ctx context.Context, model domain.ModelID, prompt string) (string, error) {
	return f(ctx, model, prompt)
}

var _ ports.ModelClient = (clientFunc)(nil)

type fakeStore struct {
	mu      sync.Mutex
	appends [][]domain.MetricsRecord
	failErr error
}

func (s *fakeStore) Append(_ context.Context, records []domain.MetricsRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}

	copied := make([]domain.MetricsRecord, len(records))
	copy(copied, records)
	s.appends = append(s.appends, copied)
	return nil
}

func (s *fakeStore) List(_ context.Context) ([]domain.MetricsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []domain.MetricsRecord
	for _, batch := range s.appends {
		all = append(all, batch...)
	}
	return all, nil
}

var _ ports.MetricsStore = (*fakeStore)(nil)
