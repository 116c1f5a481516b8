package utils

import (
	"sort"
	"time"

	"github.com/DavidAtikpo/firsty/models"
)

// ChartPoint is one day of merchant dashboard data.
type ChartPoint struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Revenue     float64 `json:"revenue"`
	Commissions float64 `json:"commissions"`
	Orders      int     `json:"orders"`
}

// DailyChartData buckets a merchant's referred orders of the last 30 days by
// calendar day. Every day in the window is present, zero-filled when no
// orders landed, sorted ascending by date. Commission figures apply the
// merchant's current rate to each day's revenue (the dashboard shows a trend,
// not the ledger).
func DailyChartData(orders []models.Order, commissionRate float64, now time.Time) []ChartPoint {
	buckets := make(map[string]*ChartPoint, 30)
	for i := 29; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		buckets[day] = &ChartPoint{Date: day}
	}

	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		point, ok := buckets[day]
		if !ok {
			continue
		}
		point.Revenue += order.TotalAmount
		point.Commissions += CommissionAmount(order.TotalAmount, commissionRate)
		point.Orders++
	}

	data := make([]ChartPoint, 0, len(buckets))
	for _, point := range buckets {
		data = append(data, *point)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Date < data[j].Date })
	return data
}
