package utils

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DavidAtikpo/firsty/models"
)

func TestOrdersCSV(t *testing.T) {
	productID := primitive.NewObjectID()
	orders := []models.Order{
		{
			OrderNumber:   "ORD-1-AAAAAAA",
			CustomerName:  "Jean Dupont",
			CustomerEmail: "jean@example.com",
			TotalAmount:   59.90,
			Status:        models.OrderStatusPending,
			Items:         []models.OrderItem{{ProductID: productID, Quantity: 2, Price: 29.95}},
			CreatedAt:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	out := OrdersCSV(orders, map[string]string{productID.Hex(): "Gourde isotherme"})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if !strings.Contains(lines[0], "Numéro de commande") {
		t.Errorf("missing header: %s", lines[0])
	}
	row := lines[1]
	for _, want := range []string{"15/06/2025", "ORD-1-AAAAAAA", "Jean Dupont", "59.90", "Gourde isotherme x2"} {
		if !strings.Contains(row, want) {
			t.Errorf("row missing %q: %s", want, row)
		}
	}
}

func TestCommissionsCSV(t *testing.T) {
	orderID := primitive.NewObjectID()
	paidAt := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	commissions := []models.Commission{
		{
			OrderID:        orderID,
			Amount:         5.99,
			CommissionRate: 10,
			IsPaid:         true,
			PaidAt:         &paidAt,
			CreatedAt:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	orders := map[string]models.Order{
		orderID.Hex(): {OrderNumber: "ORD-1-BBBBBBB", CustomerName: "Marie", TotalAmount: 59.90},
	}

	out := CommissionsCSV(commissions, orders)

	for _, want := range []string{"10%", "5.99", "Oui", "20/06/2025", "ORD-1-BBBBBBB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClicksCSVUnpaidRendersNon(t *testing.T) {
	clicks := []models.AffiliateClick{
		{IPAddress: "203.0.113.7", Converted: false, CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	out := ClicksCSV(clicks)
	if !strings.Contains(out, "Non") {
		t.Errorf("unconverted click should render Non:\n%s", out)
	}
	if !strings.Contains(out, "203.0.113.7") {
		t.Errorf("output missing IP:\n%s", out)
	}
}

func TestStatsCSVConversionRate(t *testing.T) {
	merchant := models.Merchant{
		AffiliateCode:   "ABC12345",
		CommissionRate:  10,
		TotalEarnings:   20,
		PendingEarnings: 5.50,
	}
	orders := []models.Order{{TotalAmount: 100}, {TotalAmount: 155}}
	clicks := []models.AffiliateClick{
		{Converted: true},
		{Converted: false},
		{Converted: false},
		{Converted: false},
	}

	out := StatsCSV(merchant, orders, clicks)

	for _, want := range []string{"ABC12345", "10%", "255.00", "25.00%", "Clics convertis,1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsCSVNoClicks(t *testing.T) {
	out := StatsCSV(models.Merchant{AffiliateCode: "ABC12345"}, nil, nil)
	if !strings.Contains(out, "0%") {
		t.Errorf("zero clicks should yield 0%% conversion rate:\n%s", out)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		exportType string
		want       string
	}{
		{"orders", "commandes_2025-06-15.csv"},
		{"commissions", "commissions_2025-06-15.csv"},
		{"clicks", "clics_2025-06-15.csv"},
		{"stats", "statistiques_2025-06-15.csv"},
		{"", "statistiques_2025-06-15.csv"},
	}
	for _, tt := range tests {
		if got := ExportFilename(tt.exportType, now); got != tt.want {
			t.Errorf("ExportFilename(%q) = %q, want %q", tt.exportType, got, tt.want)
		}
	}
}
