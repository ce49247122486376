package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/garageos/workshop-manager/internal/models"
)

// normalizeName collapses whitespace and case so legacy free-text technician
// names bucket together.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Technician rank thresholds on labor revenue.
const (
	RankMaster = "MASTER"
	RankSenior = "SENIOR"
	RankJunior = "JUNIOR"

	masterThreshold = 50000
	seniorThreshold = 20000
)

// SumLineItems sums the stored totals of a line-item list. Stored totals are
// the source of truth; qty and price are never re-derived here.
func SumLineItems(items []models.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return sum
}

// PartsTotal returns the sum of the job's part line totals.
func PartsTotal(job *models.Job) float64 { return SumLineItems(job.Parts) }

// LaborTotal returns the sum of the job's labor line totals.
func LaborTotal(job *models.Job) float64 { return SumLineItems(job.Labor) }

// ExpensesTotal returns the sum of the job's expense line totals. Expenses
// are reported separately and never folded into revenue or invoices.
func ExpensesTotal(job *models.Job) float64 { return SumLineItems(job.Expenses) }

// JobTotal is the billable total of a single job: parts plus labor.
func JobTotal(job *models.Job) float64 { return PartsTotal(job) + LaborTotal(job) }

// Dashboard holds shop-wide figures derived from a loaded job set.
type Dashboard struct {
	TotalJobs      int     `json:"total_jobs"`
	ActiveJobs     int     `json:"active_jobs"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalParts     float64 `json:"total_parts"`
	TotalLabor     float64 `json:"total_labor"`
	TotalExpenses  float64 `json:"total_expenses"`
	TodaysRevenue  float64 `json:"todays_revenue"`
	TodaysJobs     int     `json:"todays_jobs"`
	RevenuePerHour float64 `json:"revenue_per_hour"`
}

// ShopHours describes the working window used for the revenue-velocity
// metric.
type ShopHours struct {
	OpeningHour int // local hour the shop opens, e.g. 9
	OpenHours   int // length of the working day in hours
}

// BuildDashboard reduces the loaded job set into the dashboard figures.
// "Today" is the local calendar day of now.
func BuildDashboard(jobs []models.Job, now time.Time, hours ShopHours) Dashboard {
	var d Dashboard
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := range jobs {
		job := &jobs[i]
		d.TotalJobs++
		if job.Status != models.StatusDelivered {
			d.ActiveJobs++
		}
		d.TotalParts += PartsTotal(job)
		d.TotalLabor += LaborTotal(job)
		d.TotalExpenses += ExpensesTotal(job)
		if !job.CreatedAt.Before(midnight) {
			d.TodaysJobs++
			d.TodaysRevenue += JobTotal(job)
		}
	}
	d.TotalRevenue = d.TotalParts + d.TotalLabor
	d.RevenuePerHour = RevenuePerHour(d.TodaysRevenue, now.Hour(), hours)
	return d
}

// RevenuePerHour divides today's revenue by the hours the shop has been open.
// The denominator is clamped to [1, OpenHours] so the rate is neither a
// divide-by-zero nor inflated during the first open hour.
func RevenuePerHour(todaysRevenue float64, currentHour int, hours ShopHours) float64 {
	elapsed := currentHour - hours.OpeningHour
	if elapsed < 1 {
		elapsed = 1
	}
	if hours.OpenHours >= 1 && elapsed > hours.OpenHours {
		elapsed = hours.OpenHours
	}
	return todaysRevenue / float64(elapsed)
}

// TechnicianStats is one leaderboard row.
type TechnicianStats struct {
	TechnicianID string  `json:"technician_id"`
	Name         string  `json:"name"`
	JobsCount    int     `json:"jobs_count"`
	LaborRevenue float64 `json:"labor_revenue"`
	Efficiency   float64 `json:"efficiency"`
	Rank         string  `json:"rank"`
}

// TechnicianLeaderboard groups finished jobs (READY or DELIVERED) per
// technician and ranks them by labor revenue, descending. Jobs are bucketed
// by technician id; records predating the id migration fall back to the
// normalized display name so a legacy job still lands in one bucket.
func TechnicianLeaderboard(jobs []models.Job) []TechnicianStats {
	buckets := make(map[string]*TechnicianStats)
	order := make([]string, 0)

	for i := range jobs {
		job := &jobs[i]
		if job.Status != models.StatusReady && job.Status != models.StatusDelivered {
			continue
		}
		key := job.TechnicianID
		if key == "" {
			key = normalizeName(job.TechnicianName)
		}
		if key == "" {
			continue
		}
		stats, ok := buckets[key]
		if !ok {
			stats = &TechnicianStats{TechnicianID: job.TechnicianID, Name: job.TechnicianName}
			buckets[key] = stats
			order = append(order, key)
		}
		stats.JobsCount++
		stats.LaborRevenue += LaborTotal(job)
	}

	out := make([]TechnicianStats, 0, len(order))
	for _, key := range order {
		stats := buckets[key]
		stats.Efficiency = Efficiency(stats.LaborRevenue, stats.JobsCount)
		stats.Rank = RankFor(stats.LaborRevenue)
		out = append(out, *stats)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LaborRevenue > out[j].LaborRevenue
	})
	return out
}

// Efficiency is labor revenue per finished job, 0 when there are no jobs.
func Efficiency(laborRevenue float64, jobsCount int) float64 {
	if jobsCount == 0 {
		return 0
	}
	return laborRevenue / float64(jobsCount)
}

// RankFor maps labor revenue onto the static rank thresholds.
func RankFor(laborRevenue float64) string {
	switch {
	case laborRevenue > masterThreshold:
		return RankMaster
	case laborRevenue > seniorThreshold:
		return RankSenior
	default:
		return RankJunior
	}
}

// LowStock filters the inventory ledger down to items at or below the
// threshold, sorted by stock ascending.
func LowStock(items []models.InventoryItem, threshold int) []models.InventoryItem {
	out := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.IsLowStock(threshold) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out
}
