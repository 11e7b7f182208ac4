// Package analytics aggregates stored responses and sessions into the
// dashboard numbers: submission time buckets, the session funnel and
// per-field value distributions. Everything here is pure computation over
// rows the service fetches.
package analytics

import (
	"fmt"
	"math"
	"time"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/response"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("granularity %q: %w", s, internal.ErrInvalidGranularity)
	}
}

// BucketKey truncates a timestamp to its bucket's key. Day and week keys
// are dates, the week keyed by its Sunday; month keys drop the day.
func BucketKey(t time.Time, g Granularity) (string, error) {
	t = t.UTC()
	switch g {
	case GranularityDay:
		return t.Format("2006-01-02"), nil
	case GranularityWeek:
		sunday := t.AddDate(0, 0, -int(t.Weekday()))
		return sunday.Format("2006-01-02"), nil
	case GranularityMonth:
		return t.Format("2006-01"), nil
	default:
		return "", fmt.Errorf("granularity %q: %w", g, internal.ErrInvalidGranularity)
	}
}

// CountByBucket groups responses into submission time buckets.
func CountByBucket(responses []response.Response, g Granularity) (map[string]int, error) {
	buckets := make(map[string]int)
	for _, resp := range responses {
		key, err := BucketKey(resp.SubmittedAt, g)
		if err != nil {
			return nil, err
		}
		buckets[key]++
	}
	return buckets, nil
}

// Funnel counts sessions per stored status. Each session lands in exactly
// one bucket.
type Funnel struct {
	Started    int `json:"started"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Abandoned  int `json:"abandoned"`
	Expired    int `json:"expired"`
	Total      int `json:"total"`
}

func BuildFunnel(sessions []response.Session) Funnel {
	var f Funnel
	for _, session := range sessions {
		switch session.Status {
		case response.StatusStarted:
			f.Started++
		case response.StatusInProgress:
			f.InProgress++
		case response.StatusCompleted:
			f.Completed++
		case response.StatusAbandoned:
			f.Abandoned++
		case response.StatusExpired:
			f.Expired++
		default:
			continue
		}
		f.Total++
	}
	return f
}

// CompletionRate is completed over total as a whole percentage, rounded
// to the nearest integer. No sessions means 0, not NaN.
func (f Funnel) CompletionRate() int {
	return ratePercent(f.Completed, f.Total)
}

// AbandonmentRate counts both abandoned and expired sessions as lost.
func (f Funnel) AbandonmentRate() int {
	return ratePercent(f.Abandoned+f.Expired, f.Total)
}

func ratePercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
