package services

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DavidAtikpo/firsty/models"
)

func TestPayoutTransitionMarkPaid(t *testing.T) {
	now := time.Now()
	commission := models.Commission{Amount: 25.50, IsPaid: false}

	change, ok := payoutTransition(commission, true, now)
	if !ok {
		t.Fatal("expected a transition")
	}
	if change.PendingDelta != -25.50 {
		t.Errorf("PendingDelta = %v, want -25.50", change.PendingDelta)
	}
	if change.TotalDelta != 25.50 {
		t.Errorf("TotalDelta = %v, want 25.50", change.TotalDelta)
	}
	if change.PaidAt == nil || !change.PaidAt.Equal(now) {
		t.Errorf("PaidAt = %v, want %v", change.PaidAt, now)
	}
}

func TestPayoutTransitionMarkUnpaid(t *testing.T) {
	paidAt := time.Now().Add(-time.Hour)
	commission := models.Commission{Amount: 25.50, IsPaid: true, PaidAt: &paidAt}

	change, ok := payoutTransition(commission, false, time.Now())
	if !ok {
		t.Fatal("expected a transition")
	}
	if change.PendingDelta != 25.50 {
		t.Errorf("PendingDelta = %v, want 25.50", change.PendingDelta)
	}
	if change.TotalDelta != -25.50 {
		t.Errorf("TotalDelta = %v, want -25.50", change.TotalDelta)
	}
	if change.PaidAt != nil {
		t.Errorf("PaidAt = %v, want nil", change.PaidAt)
	}
}

// Repeating a toggle with the state the commission is already in must not
// move any balance.
func TestPayoutTransitionIdempotent(t *testing.T) {
	now := time.Now()

	if _, ok := payoutTransition(models.Commission{Amount: 10, IsPaid: true, PaidAt: &now}, true, now); ok {
		t.Error("paid -> paid should be a no-op")
	}
	if _, ok := payoutTransition(models.Commission{Amount: 10, IsPaid: false}, false, now); ok {
		t.Error("unpaid -> unpaid should be a no-op")
	}
}

// A full pay/unpay round trip must leave both balances exactly where they
// started.
func TestPayoutTransitionRoundTrip(t *testing.T) {
	now := time.Now()
	commission := models.Commission{Amount: 13.37, IsPaid: false}

	pay, ok := payoutTransition(commission, true, now)
	if !ok {
		t.Fatal("expected pay transition")
	}
	commission.IsPaid = true
	commission.PaidAt = pay.PaidAt

	unpay, ok := payoutTransition(commission, false, now)
	if !ok {
		t.Fatal("expected unpay transition")
	}

	if pay.PendingDelta+unpay.PendingDelta != 0 {
		t.Errorf("pending net = %v, want 0", pay.PendingDelta+unpay.PendingDelta)
	}
	if pay.TotalDelta+unpay.TotalDelta != 0 {
		t.Errorf("total net = %v, want 0", pay.TotalDelta+unpay.TotalDelta)
	}
}

func TestConversionCutoff(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cutoff := conversionCutoff(now)
	if want := now.AddDate(0, 0, -30); !cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", cutoff, want)
	}
}

func TestBuildOrderItems(t *testing.T) {
	productA := models.Product{ID: primitive.NewObjectID(), Name: "Gourde", Price: 19.90, Stock: 10}
	productB := models.Product{ID: primitive.NewObjectID(), Name: "Sac", Price: 45.00, Stock: 3}
	products := map[string]models.Product{
		productA.ID.Hex(): productA,
		productB.ID.Hex(): productB,
	}

	items, total, err := buildOrderItems([]models.OrderItemRequest{
		{ProductID: productA.ID.Hex(), Quantity: 2},
		{ProductID: productB.ID.Hex(), Quantity: 1},
	}, products)
	if err != nil {
		t.Fatalf("buildOrderItems: %v", err)
	}

	if total != 84.80 {
		t.Errorf("total = %v, want 84.80", total)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Price != 19.90 || items[0].Quantity != 2 {
		t.Errorf("item snapshot = %+v, want price 19.90 qty 2", items[0])
	}
}

func TestBuildOrderItemsInsufficientStock(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), Name: "Gourde", Price: 19.90, Stock: 1}
	products := map[string]models.Product{product.ID.Hex(): product}

	_, _, err := buildOrderItems([]models.OrderItemRequest{
		{ProductID: product.ID.Hex(), Quantity: 2},
	}, products)

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if stockErr.ProductName != "Gourde" {
		t.Errorf("ProductName = %q, want Gourde", stockErr.ProductName)
	}
}

func TestBuildOrderItemsUnknownProduct(t *testing.T) {
	_, _, err := buildOrderItems([]models.OrderItemRequest{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
	}, map[string]models.Product{})

	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}
