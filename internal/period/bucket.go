package period

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects how a window is split into chart buckets.
type Mode string

const (
	// ModeWeek splits a month into "Week 1".."Week 4".
	ModeWeek Mode = "week"
	// ModeDay splits a month into one bucket per day of month.
	ModeDay Mode = "day"
	// ModeMonth splits the window into calendar months.
	ModeMonth Mode = "month"
	// ModeRange gives one bucket per calendar day of the window. Unknown modes
	// bucket the same way.
	ModeRange Mode = "range"
)

// Point is a dated amount fed into Bucketize.
type Point struct {
	Date  string
	Value decimal.Decimal
}

type Bucket struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Labels returns the bucket labels for the window without summing anything.
func Labels(w Window) []string {
	buckets := empty(w)
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	return labels
}

// Bucketize sums point values into the window's buckets. Points with an
// unparseable date or outside the window are skipped.
func Bucketize(points []Point, w Window) []Bucket {
	buckets := empty(w)
	for _, p := range points {
		t, err := ParseDate(p.Date)
		if err != nil || !w.Contains(t) {
			continue
		}
		i := index(w, t)
		if i < 0 || i >= len(buckets) {
			continue
		}
		buckets[i].Value = buckets[i].Value.Add(p.Value)
	}
	return buckets
}

// Values extracts the bucket sums in order.
func Values(buckets []Bucket) []decimal.Decimal {
	values := make([]decimal.Decimal, len(buckets))
	for i, b := range buckets {
		values[i] = b.Value
	}
	return values
}

func AllZero(buckets []Bucket) bool {
	for _, b := range buckets {
		if !b.Value.IsZero() {
			return false
		}
	}
	return true
}

// WithPlaceholder replaces an all-zero series with a single "No Data" bucket.
func WithPlaceholder(buckets []Bucket) []Bucket {
	if AllZero(buckets) {
		return Placeholder()
	}
	return buckets
}

func Placeholder() []Bucket {
	return []Bucket{{Label: NoDataLabel, Value: decimal.Zero}}
}

func empty(w Window) []Bucket {
	var labels []string

	switch w.Mode {
	case ModeWeek:
		labels = []string{"Week 1", "Week 2", "Week 3", "Week 4"}
	case ModeDay:
		_, last := MonthRange(w.Start.Year(), w.Start.Month())
		for d := 1; d <= last.Day(); d++ {
			labels = append(labels, strconv.Itoa(d))
		}
	case ModeMonth:
		multiYear := w.Start.Year() != w.End.Year()
		for m := monthStart(w.Start); !m.After(w.End); m = m.AddDate(0, 1, 0) {
			if multiYear {
				labels = append(labels, m.Format("Jan 2006"))
			} else {
				labels = append(labels, m.Format("Jan"))
			}
		}
	default:
		format := "Jan 2"
		if DaysBetween(w.Start, w.End) == 7 && w.Start.Weekday() == time.Monday {
			format = "Mon"
		}
		for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
			labels = append(labels, d.Format(format))
		}
	}

	buckets := make([]Bucket, len(labels))
	for i, l := range labels {
		buckets[i] = Bucket{Label: l, Value: decimal.Zero}
	}
	return buckets
}

func index(w Window, t time.Time) int {
	switch w.Mode {
	case ModeWeek:
		if t.Year() != w.Start.Year() || t.Month() != w.Start.Month() {
			return -1
		}
		return WeekOfMonth(t.Day()) - 1
	case ModeDay:
		if t.Year() != w.Start.Year() || t.Month() != w.Start.Month() {
			return -1
		}
		return t.Day() - 1
	case ModeMonth:
		s := monthStart(w.Start)
		return (t.Year()-s.Year())*12 + int(t.Month()) - int(s.Month())
	}
	return DaysBetween(w.Start, t) - 1
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
