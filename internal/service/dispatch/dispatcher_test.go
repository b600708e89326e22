package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

func makeAddresses(n int) []string {
	addresses := make([]string, n)
	for i := range addresses {
		addresses[i] = "73255501" + string(rune('0'+i%10)) + string(rune('0'+i/10))
	}
	return addresses
}

func TestDispatcher_Execute_AllSucceed(t *testing.T) {
	d := NewDispatcher(&Config{WindowSize: 10}, logger.NewMockLogger())

	addresses := makeAddresses(25)
	var calls int32

	report, err := d.Execute(context.Background(), addresses, func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		atomic.AddInt32(&calls, 1)
		return &domain.GatewayResult{ExternalID: "SM-" + address, Status: domain.RecipientStatusQueued}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(25), atomic.LoadInt32(&calls))
	assert.Equal(t, 25, report.SuccessCount)
	assert.Equal(t, 0, report.FailCount)
	assert.Len(t, report.Outcomes, 25)
	assert.Equal(t, domain.AggregateStatusSent, report.Status())
}

func TestDispatcher_Execute_FailureDoesNotAbortSiblings(t *testing.T) {
	d := NewDispatcher(&Config{WindowSize: 5}, logger.NewMockLogger())

	addresses := makeAddresses(12)

	report, err := d.Execute(context.Background(), addresses, func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		if address == addresses[3] {
			return nil, errors.New("connection reset")
		}
		if address == addresses[7] {
			return &domain.GatewayResult{Status: domain.RecipientStatusFailed}, nil
		}
		return &domain.GatewayResult{Status: domain.RecipientStatusQueued}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 10, report.SuccessCount)
	assert.Equal(t, 2, report.FailCount)
	assert.Equal(t, report.SuccessCount+report.FailCount, len(report.Outcomes))
	assert.Equal(t, domain.AggregateStatusPartial, report.Status())
}

func TestDispatcher_Execute_AllFail(t *testing.T) {
	d := NewDispatcher(DefaultConfig(), logger.NewMockLogger())

	report, err := d.Execute(context.Background(), makeAddresses(3), func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		return nil, errors.New("gateway unreachable")
	})

	require.NoError(t, err)
	assert.Equal(t, 0, report.SuccessCount)
	assert.Equal(t, 3, report.FailCount)
	assert.Equal(t, domain.AggregateStatusFailed, report.Status())
}

func TestDispatcher_Execute_WindowConcurrencyBound(t *testing.T) {
	windowSize := 4
	d := NewDispatcher(&Config{WindowSize: windowSize}, logger.NewMockLogger())

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	_, err := d.Execute(context.Background(), makeAddresses(20), func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return &domain.GatewayResult{Status: domain.RecipientStatusQueued}, nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, maxInFlight, windowSize)
}

func TestDispatcher_Execute_PausesBetweenWindows(t *testing.T) {
	pause := 30 * time.Millisecond
	d := NewDispatcher(&Config{WindowSize: 5, WindowPause: pause}, logger.NewMockLogger())

	start := time.Now()
	_, err := d.Execute(context.Background(), makeAddresses(15), func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		return &domain.GatewayResult{Status: domain.RecipientStatusQueued}, nil
	})

	require.NoError(t, err)
	// 3 windows means 2 pauses
	assert.GreaterOrEqual(t, time.Since(start), 2*pause)
}

func TestDispatcher_Execute_ContextCancelledBetweenWindows(t *testing.T) {
	d := NewDispatcher(&Config{WindowSize: 5, WindowPause: 50 * time.Millisecond}, logger.NewMockLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var calls int32

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	report, err := d.Execute(ctx, makeAddresses(20), func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		atomic.AddInt32(&calls, 1)
		return &domain.GatewayResult{Status: domain.RecipientStatusQueued}, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	// Only the first window ran; the report covers exactly what was attempted
	assert.Equal(t, int(atomic.LoadInt32(&calls)), len(report.Outcomes))
	assert.Equal(t, report.SuccessCount+report.FailCount, len(report.Outcomes))
}

func TestDispatcher_Execute_EmptyAudience(t *testing.T) {
	d := NewDispatcher(DefaultConfig(), logger.NewMockLogger())

	report, err := d.Execute(context.Background(), nil, func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		t.Fatal("send must not be called for an empty audience")
		return nil, nil
	})

	require.NoError(t, err)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, domain.AggregateStatusSent, report.Status())
}
