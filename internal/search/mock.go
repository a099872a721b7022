package search

import (
	"context"
	"fmt"
	"time"
)

// MockSuffix marks placeholder titles.
const MockSuffix = " (Mock)"

const (
	mockSubtitle = "Add manually"
	mockImage    = "https://picsum.photos/200/300"
)

// Mock answers every query with one placeholder after a fixed delay. It
// stands in for categories without a real provider and for failed ones.
type Mock struct {
	latency time.Duration
	now     func() time.Time
}

func NewMock(latency time.Duration) *Mock {
	return &Mock{latency: latency, now: time.Now}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Search(ctx context.Context, query string) ([]Result, error) {
	if m.latency > 0 {
		t := time.NewTimer(m.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return []Result{{
		ID:       fmt.Sprintf("m-%d", m.now().UnixMilli()),
		Title:    query + MockSuffix,
		Subtitle: mockSubtitle,
		Image:    mockImage,
		Source:   m.Name(),
	}}, nil
}
