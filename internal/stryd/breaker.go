package stryd

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gitjpk/strydcmd/internal/domain"
)

// newDetailBreaker guards the detail endpoint, which is the high-volume call
// of a sync run. When the vendor starts failing the circuit opens and the
// remaining ids in the run fail fast instead of each waiting out a timeout.
func newDetailBreaker(logger zerolog.Logger) *gobreaker.CircuitBreaker[*domain.ActivityDetail] {
	return gobreaker.NewCircuitBreaker[*domain.ActivityDetail](gobreaker.Settings{
		Name:        "stryd-activity-detail",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		// A 404 means the id is gone upstream, not that the vendor is down.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("detail fetch circuit state changed")
		},
	})
}
