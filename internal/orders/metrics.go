package orders

import (
	"sort"
	"time"
)

// Metrics is the dashboard header: turnover and profit across all rows,
// completed ones included, plus the open-order backlog.
type Metrics struct {
	Omzet   int64 `json:"omzet"`
	Profit  int64 `json:"profit"`
	Pending int   `json:"pending"`
}

// DailyPoint is one day of the turnover/profit line chart.
type DailyPoint struct {
	Date   string `json:"date"` // 2006-01-02
	Omzet  int64  `json:"omzet"`
	Profit int64  `json:"profit"`
}

// ServiceCount is one bar of the top-services chart.
type ServiceCount struct {
	Service string `json:"service"`
	Orders  int    `json:"orders"`
	Omzet   int64  `json:"omzet"`
}

// Aggregate computes the header metrics for a table.
func Aggregate(t *Table) Metrics {
	m := Metrics{}
	for _, r := range t.Rows {
		m.Omzet += r.CleanTotal
		m.Profit += r.Profit
		if IsPending(r.Status) {
			m.Pending++
		}
	}
	return m
}

// Form timestamps are day-first ("25/12/2024 14:30:05"); some rows carry
// the date only.
var timestampLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006",
}

// DailySeries groups turnover and profit by calendar date, sorted
// ascending. Rows with an unparseable timestamp are left out of the chart
// but still count toward the header metrics.
func DailySeries(t *Table) []DailyPoint {
	byDate := make(map[string]*DailyPoint)
	for _, r := range t.Rows {
		date, ok := parseDay(r.Timestamp)
		if !ok {
			continue
		}
		p, exists := byDate[date]
		if !exists {
			p = &DailyPoint{Date: date}
			byDate[date] = p
		}
		p.Omzet += r.CleanTotal
		p.Profit += r.Profit
	}

	series := make([]DailyPoint, 0, len(byDate))
	for _, p := range byDate {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// TopServices returns the n most ordered service labels, busiest first.
// Ties break on turnover, then label, so the chart is stable between
// renders.
func TopServices(t *Table, n int) []ServiceCount {
	byService := make(map[string]*ServiceCount)
	for _, r := range t.Rows {
		if r.Service == "" {
			continue
		}
		s, exists := byService[r.Service]
		if !exists {
			s = &ServiceCount{Service: r.Service}
			byService[r.Service] = s
		}
		s.Orders++
		s.Omzet += r.CleanTotal
	}

	counts := make([]ServiceCount, 0, len(byService))
	for _, s := range byService {
		counts = append(counts, *s)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Orders != counts[j].Orders {
			return counts[i].Orders > counts[j].Orders
		}
		if counts[i].Omzet != counts[j].Omzet {
			return counts[i].Omzet > counts[j].Omzet
		}
		return counts[i].Service < counts[j].Service
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func parseDay(timestamp string) (string, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, timestamp); err == nil {
			return ts.Format("2006-01-02"), true
		}
	}
	return "", false
}
