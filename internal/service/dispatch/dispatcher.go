// Package dispatch runs batched, rate-limited gateway fan-out. A
// broadcast's addresses are cut into fixed-size windows; each window's
// sends run concurrently, then the dispatcher pauses before the next
// window so the upstream gateway is never hammered with the whole
// audience at once.
package dispatch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// Config controls windowing behavior
type Config struct {
	// WindowSize is the number of concurrent sends per window
	WindowSize int

	// WindowPause is the delay between consecutive windows
	WindowPause time.Duration
}

// DefaultConfig returns the interactive-send defaults.
func DefaultConfig() *Config {
	return &Config{
		WindowSize:  10,
		WindowPause: time.Second,
	}
}

// SendFunc performs one gateway call for one address.
type SendFunc func(ctx context.Context, address string) (*domain.GatewayResult, error)

// Outcome is the result of one address's send attempt.
type Outcome struct {
	Address string
	Result  *domain.GatewayResult
	Err     error
}

// Succeeded reports whether the attempt counts toward the success side
// of the aggregate. A gateway acknowledgment with a failed or
// undelivered status counts as a failure just like a transport error.
func (o Outcome) Succeeded() bool {
	if o.Err != nil {
		return false
	}
	if o.Result == nil {
		return true
	}
	switch o.Result.Status {
	case domain.RecipientStatusFailed, domain.RecipientStatusUndelivered:
		return false
	default:
		return true
	}
}

// Report aggregates the outcomes of a full dispatch run. The counts
// always sum to len(Outcomes).
type Report struct {
	Outcomes     []Outcome
	SuccessCount int
	FailCount    int
}

// Status derives the aggregate status from the counts.
func (r *Report) Status() domain.AggregateStatus {
	return domain.DeriveStatus(r.SuccessCount, r.FailCount)
}

// Dispatcher executes windowed sends.
type Dispatcher struct {
	config *Config
	logger logger.Logger
}

// NewDispatcher creates a dispatcher with the given window settings.
func NewDispatcher(config *Config, logger logger.Logger) *Dispatcher {
	if config == nil {
		config = DefaultConfig()
	}
	if config.WindowSize <= 0 {
		config.WindowSize = DefaultConfig().WindowSize
	}
	return &Dispatcher{
		config: config,
		logger: logger,
	}
}

// Execute sends to every address, window by window. One recipient's
// failure never aborts the rest: every address gets exactly one
// attempt and its outcome is recorded. Context cancellation stops
// between windows and returns the partial report with ctx.Err().
func (d *Dispatcher) Execute(ctx context.Context, addresses []string, send SendFunc) (*Report, error) {
	startTime := time.Now()
	report := &Report{
		Outcomes: make([]Outcome, len(addresses)),
	}

	sem := semaphore.NewWeighted(int64(d.config.WindowSize))

	for start := 0; start < len(addresses); start += d.config.WindowSize {
		if start > 0 && d.config.WindowPause > 0 {
			timer := time.NewTimer(d.config.WindowPause)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				d.tally(report, start)
				return report, ctx.Err()
			}
		}

		end := start + d.config.WindowSize
		if end > len(addresses) {
			end = len(addresses)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				d.tally(report, i)
				return report, err
			}

			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer sem.Release(1)

				result, err := send(ctx, addresses[idx])
				report.Outcomes[idx] = Outcome{
					Address: addresses[idx],
					Result:  result,
					Err:     err,
				}
			}(i)
		}
		wg.Wait()
	}

	d.tally(report, len(addresses))

	d.logger.WithFields(map[string]interface{}{
		"duration_ms": time.Since(startTime).Milliseconds(),
		"total":       len(addresses),
		"success":     report.SuccessCount,
		"failed":      report.FailCount,
	}).Info("Dispatch completed")

	return report, nil
}

// tally counts the first n outcomes. On early return the untouched
// tail is truncated so the report only covers attempted addresses.
func (d *Dispatcher) tally(report *Report, n int) {
	report.Outcomes = report.Outcomes[:n]
	report.SuccessCount = 0
	report.FailCount = 0
	for _, o := range report.Outcomes {
		if o.Succeeded() {
			report.SuccessCount++
		} else {
			report.FailCount++
		}
	}
}
