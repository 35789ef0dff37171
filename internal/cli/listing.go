package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gitjpk/strydcmd/internal/domain"
)

// RenderActivities prints a table of persisted activities, oldest first.
func RenderActivities(out io.Writer, records []domain.ActivityRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No activities in the local store yet. Run `strydsync sync` first.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tNAME\tTYPE\tDISTANCE\tTIME\tAVG POWER")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.Date,
			orDash(rec.Name),
			orDash(rec.Type),
			distance(rec.Distance),
			duration(rec.MovingTime),
			power(rec.AveragePower),
		)
	}
	tw.Flush()
	fmt.Fprintf(out, "\n%d activities\n", len(records))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func distance(meters *float64) string {
	if meters == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f km", *meters/1000)
}

func duration(seconds *int64) string {
	if seconds == nil {
		return "-"
	}
	return (time.Duration(*seconds) * time.Second).String()
}

func power(watts *float64) string {
	if watts == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f W", *watts)
}
