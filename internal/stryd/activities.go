package stryd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gitjpk/strydcmd/internal/domain"
)

// calendarDateFormat is the MM-DD-YYYY layout the calendar endpoint expects.
const calendarDateFormat = "01-02-2006"

// Calendar lists activity summaries between from and until, ordered by the
// vendor (most recent first). AuthError and NetworkError from here are fatal
// to a sync run: without the candidate list there is nothing to do.
func (c *Client) Calendar(ctx context.Context, from, until time.Time) ([]domain.ActivitySummary, error) {
	resp, err := c.get(ctx, "/api/v1/users/calendar", map[string]string{
		"srtDate": from.Format(calendarDateFormat),
		"endDate": until.Format(calendarDateFormat),
		"sortBy":  "StartDate",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: calendar returned %d", domain.ErrNetwork, resp.StatusCode)
	}

	var payload struct {
		Activities []domain.ActivitySummary `json:"activities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode calendar response: %v", domain.ErrNetwork, err)
	}

	c.logger.Debug().Int("count", len(payload.Activities)).Msg("calendar listed")
	return payload.Activities, nil
}

// ActivityDetail fetches the full record for one activity. NotFoundError and
// NetworkError are per-id outcomes, never fatal to a run. Calls run through
// the circuit breaker; an open circuit maps to NetworkError.
func (c *Client) ActivityDetail(ctx context.Context, activityID int64) (*domain.ActivityDetail, error) {
	detail, err := c.breaker.Execute(func() (*domain.ActivityDetail, error) {
		return c.fetchDetail(ctx, activityID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.NewActivityError(activityID, fmt.Errorf("%w: detail circuit open", domain.ErrNetwork))
		}
		return nil, err
	}
	return detail, nil
}

func (c *Client) fetchDetail(ctx context.Context, activityID int64) (*domain.ActivityDetail, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/api/v1/activities/%d", activityID), nil)
	if err != nil {
		return nil, domain.NewActivityError(activityID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewActivityError(activityID, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewActivityError(activityID,
			fmt.Errorf("%w: detail returned %d", domain.ErrNetwork, resp.StatusCode))
	}

	var detail domain.ActivityDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, domain.NewActivityError(activityID,
			fmt.Errorf("%w: decode detail: %v", domain.ErrMalformedPayload, err))
	}
	return &detail, nil
}

// FITFile downloads the raw FIT binary for one activity.
func (c *Client) FITFile(ctx context.Context, activityID int64) ([]byte, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/api/v1/activities/%d/fit", activityID), nil)
	if err != nil {
		return nil, domain.NewActivityError(activityID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewActivityError(activityID, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewActivityError(activityID,
			fmt.Errorf("%w: fit download returned %d", domain.ErrNetwork, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewActivityError(activityID, fmt.Errorf("%w: read fit body: %v", domain.ErrNetwork, err))
	}
	return data, nil
}
