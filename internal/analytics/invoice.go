package analytics

import (
	"math"

	"github.com/garageos/workshop-manager/internal/models"
)

// GST is split equally between central and state components.
const (
	CGSTRate = 0.09
	SGSTRate = 0.09
)

// Invoice is the derived bill for a job. CGST and SGST are kept unrounded;
// only the grand total is rounded to a whole rupee. Renderers format the tax
// lines to two decimals. The asymmetry matches the printed bills this system
// replaces, so regenerated invoices stay figure-for-figure identical.
type Invoice struct {
	JobID        string            `json:"job_id"`
	Registration string            `json:"registration"`
	BillingName  string            `json:"billing_name"`
	GSTIN        string            `json:"gstin"`
	Parts        []models.LineItem `json:"parts"`
	Labor        []models.LineItem `json:"labor"`
	PartsTotal   float64           `json:"parts_total"`
	LaborTotal   float64           `json:"labor_total"`
	Subtotal     float64           `json:"subtotal"`
	CGST         float64           `json:"cgst"`
	SGST         float64           `json:"sgst"`
	GrandTotal   float64           `json:"grand_total"`
}

// BuildInvoice derives the invoice figures from a job's stored line items.
func BuildInvoice(job *models.Job) Invoice {
	inv := Invoice{
		JobID:        job.ID.Hex(),
		Registration: job.Registration,
		BillingName:  job.BillingName,
		GSTIN:        job.GSTIN,
		Parts:        job.Parts,
		Labor:        job.Labor,
		PartsTotal:   PartsTotal(job),
		LaborTotal:   LaborTotal(job),
	}
	inv.Subtotal = inv.PartsTotal + inv.LaborTotal
	inv.CGST = inv.Subtotal * CGSTRate
	inv.SGST = inv.Subtotal * SGSTRate
	inv.GrandTotal = math.Round(inv.Subtotal + inv.CGST + inv.SGST)
	return inv
}
