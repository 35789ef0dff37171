package syncer

import (
	"fmt"
	"sort"
	"time"

	"github.com/gitjpk/strydcmd/internal/domain"
)

// dayFormat is the YYYYMMDD layout accepted on the command line.
const dayFormat = "20060102"

// Window is the half-open [From, Until) time range a run covers.
type Window struct {
	From  time.Time
	Until time.Time
}

// LastDays covers the given number of days ending now.
func LastDays(now time.Time, days int) Window {
	return Window{From: now.AddDate(0, 0, -days), Until: now}
}

// SingleDay covers one calendar day given as YYYYMMDD, in UTC.
func SingleDay(date string) (Window, error) {
	day, err := time.ParseInLocation(dayFormat, date, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("invalid date %q, want YYYYMMDD: %w", date, err)
	}
	return Window{From: day, Until: day.AddDate(0, 0, 1)}, nil
}

// Filter keeps the summaries whose start timestamp falls inside the window
// and returns them oldest first. The vendor lists newest first and its date
// filter has day granularity, so both the order and the bounds are enforced
// here before batching.
func (w Window) Filter(summaries []domain.ActivitySummary) []domain.ActivitySummary {
	kept := make([]domain.ActivitySummary, 0, len(summaries))
	for _, s := range summaries {
		ts := time.Unix(s.Timestamp, 0)
		if ts.Before(w.From) || !ts.Before(w.Until) {
			continue
		}
		kept = append(kept, s)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Timestamp != kept[j].Timestamp {
			return kept[i].Timestamp < kept[j].Timestamp
		}
		return kept[i].ID < kept[j].ID
	})
	return kept
}
