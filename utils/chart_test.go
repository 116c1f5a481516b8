package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DavidAtikpo/firsty/models"
)

func TestDailyChartDataZeroFilled(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	data := DailyChartData(nil, 10, now)
	if len(data) != 30 {
		t.Fatalf("got %d points, want 30", len(data))
	}
	if data[0].Date != "2025-05-17" {
		t.Errorf("first bucket = %s, want 2025-05-17", data[0].Date)
	}
	if data[29].Date != "2025-06-15" {
		t.Errorf("last bucket = %s, want 2025-06-15", data[29].Date)
	}
	for i := 1; i < len(data); i++ {
		if data[i].Date <= data[i-1].Date {
			t.Fatalf("buckets not ascending at %d: %s then %s", i, data[i-1].Date, data[i].Date)
		}
	}
	for _, point := range data {
		if point.Revenue != 0 || point.Commissions != 0 || point.Orders != 0 {
			t.Errorf("bucket %s not zero-filled: %+v", point.Date, point)
		}
	}
}

func TestDailyChartDataAggregatesOrders(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: primitive.NewObjectID(), TotalAmount: 100, CreatedAt: now},
		{ID: primitive.NewObjectID(), TotalAmount: 50, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: primitive.NewObjectID(), TotalAmount: 80, CreatedAt: now.AddDate(0, 0, -5)},
		// outside the window, must be ignored
		{ID: primitive.NewObjectID(), TotalAmount: 999, CreatedAt: now.AddDate(0, 0, -40)},
	}

	data := DailyChartData(orders, 10, now)

	today := data[29]
	if today.Orders != 2 {
		t.Errorf("today has %d orders, want 2", today.Orders)
	}
	if today.Revenue != 150 {
		t.Errorf("today revenue = %v, want 150", today.Revenue)
	}
	if today.Commissions != 15 {
		t.Errorf("today commissions = %v, want 15", today.Commissions)
	}

	fiveDaysAgo := data[24]
	if fiveDaysAgo.Orders != 1 || fiveDaysAgo.Revenue != 80 {
		t.Errorf("bucket %s = %+v, want 1 order of 80", fiveDaysAgo.Date, fiveDaysAgo)
	}

	totalRevenue := 0.0
	for _, point := range data {
		totalRevenue += point.Revenue
	}
	if totalRevenue != 230 {
		t.Errorf("window revenue = %v, want 230 (stale order must not count)", totalRevenue)
	}
}
