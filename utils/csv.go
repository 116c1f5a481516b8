package utils

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/DavidAtikpo/firsty/models"
)

// CSV builders for the merchant export endpoint. Dates use the French
// dd/mm/yyyy format and booleans render as Oui/Non, matching what the
// dashboard expects to download.

const csvDateLayout = "02/01/2006"

func buildCSV(headers []string, rows [][]string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(headers)
	w.WriteAll(rows)
	w.Flush()
	return sb.String()
}

func ouiNon(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

// OrdersCSV renders a merchant's referred orders. productNames maps product
// IDs (hex) to display names for the items column.
func OrdersCSV(orders []models.Order, productNames map[string]string) string {
	headers := []string{"Date", "Numéro de commande", "Client", "Email", "Montant total", "Statut", "Articles"}
	rows := make([][]string, 0, len(orders))
	for _, order := range orders {
		items := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			name := productNames[item.ProductID.Hex()]
			if name == "" {
				name = item.ProductID.Hex()
			}
			items = append(items, fmt.Sprintf("%s x%d", name, item.Quantity))
		}
		rows = append(rows, []string{
			order.CreatedAt.Format(csvDateLayout),
			order.OrderNumber,
			order.CustomerName,
			order.CustomerEmail,
			fmt.Sprintf("%.2f", order.TotalAmount),
			order.Status,
			strings.Join(items, "; "),
		})
	}
	return buildCSV(headers, rows)
}

// CommissionsCSV renders a merchant's commission ledger. orders maps order IDs
// (hex) to the referenced order for number/customer/amount columns.
func CommissionsCSV(commissions []models.Commission, orders map[string]models.Order) string {
	headers := []string{"Date", "Numéro de commande", "Client", "Montant commande", "Taux", "Commission", "Payé", "Date paiement"}
	rows := make([][]string, 0, len(commissions))
	for _, commission := range commissions {
		order := orders[commission.OrderID.Hex()]
		paidAt := ""
		if commission.PaidAt != nil {
			paidAt = commission.PaidAt.Format(csvDateLayout)
		}
		rows = append(rows, []string{
			commission.CreatedAt.Format(csvDateLayout),
			order.OrderNumber,
			order.CustomerName,
			fmt.Sprintf("%.2f", order.TotalAmount),
			fmt.Sprintf("%g%%", commission.CommissionRate),
			fmt.Sprintf("%.2f", commission.Amount),
			ouiNon(commission.IsPaid),
			paidAt,
		})
	}
	return buildCSV(headers, rows)
}

// ClicksCSV renders a merchant's tracked clicks.
func ClicksCSV(clicks []models.AffiliateClick) string {
	headers := []string{"Date", "IP", "Converti", "User Agent", "Referer"}
	rows := make([][]string, 0, len(clicks))
	for _, click := range clicks {
		rows = append(rows, []string{
			click.CreatedAt.Format(csvDateLayout),
			click.IPAddress,
			ouiNon(click.Converted),
			click.UserAgent,
			click.Referer,
		})
	}
	return buildCSV(headers, rows)
}

// StatsCSV renders a merchant's summary statistics.
func StatsCSV(merchant models.Merchant, orders []models.Order, clicks []models.AffiliateClick) string {
	totalRevenue := 0.0
	for _, order := range orders {
		totalRevenue += order.TotalAmount
	}
	convertedClicks := 0
	for _, click := range clicks {
		if click.Converted {
			convertedClicks++
		}
	}
	conversionRate := "0"
	if len(clicks) > 0 {
		conversionRate = fmt.Sprintf("%.2f", float64(convertedClicks)/float64(len(clicks))*100)
	}

	rows := [][]string{
		{"Code d'affiliation", merchant.AffiliateCode},
		{"Taux de commission", fmt.Sprintf("%g%%", merchant.CommissionRate)},
		{"Gains totaux", fmt.Sprintf("%.2f", merchant.TotalEarnings)},
		{"Gains en attente", fmt.Sprintf("%.2f", merchant.PendingEarnings)},
		{"Commandes référées", fmt.Sprintf("%d", len(orders))},
		{"Revenu total", fmt.Sprintf("%.2f", totalRevenue)},
		{"Total clics", fmt.Sprintf("%d", len(clicks))},
		{"Clics convertis", fmt.Sprintf("%d", convertedClicks)},
		{"Taux de conversion", conversionRate + "%"},
	}
	return buildCSV([]string{"Statistique", "Valeur"}, rows)
}

// ExportFilename builds the attachment filename for an export type.
func ExportFilename(exportType string, now time.Time) string {
	var base string
	switch exportType {
	case "orders":
		base = "commandes"
	case "commissions":
		base = "commissions"
	case "clicks":
		base = "clics"
	default:
		base = "statistiques"
	}
	return fmt.Sprintf("%s_%s.csv", base, now.Format("2006-01-02"))
}
