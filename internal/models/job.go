package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobStatus represents the workflow state of a job card.
type JobStatus string

const (
	StatusEstimate       JobStatus = "ESTIMATE"
	StatusWorkInProgress JobStatus = "WORK_IN_PROGRESS"
	StatusWorkPaused     JobStatus = "WORK_PAUSED"
	StatusWaitingParts   JobStatus = "WAITING_PARTS"
	StatusReady          JobStatus = "READY"
	StatusDelivered      JobStatus = "DELIVERED"
)

// IsValidStatus checks if a status is one of the modeled workflow states.
func IsValidStatus(status JobStatus) bool {
	switch status {
	case StatusEstimate, StatusWorkInProgress, StatusWorkPaused,
		StatusWaitingParts, StatusReady, StatusDelivered:
		return true
	default:
		return false
	}
}

// PartRequestStatus represents the approval state of a part request.
type PartRequestStatus string

const (
	PartRequestPending  PartRequestStatus = "PENDING"
	PartRequestApproved PartRequestStatus = "APPROVED"
)

// TaskStep is a single checklist step inside a task block.
type TaskStep struct {
	Description string `json:"description" bson:"description"`
	Done        bool   `json:"done" bson:"done"`
}

// TaskBlock is a named grouping of checklist steps, e.g. "Mechanical",
// "Electrical", "QC".
type TaskBlock struct {
	Name   string     `json:"name" bson:"name"`
	Status string     `json:"status" bson:"status"`
	Steps  []TaskStep `json:"steps" bson:"steps"`
}

// LineItem is a billed unit of either a part or labor charge. Total is stored
// redundantly and is the figure all revenue aggregation sums.
type LineItem struct {
	ID    string  `json:"id" bson:"id"`
	Desc  string  `json:"desc" bson:"desc"`
	Qty   float64 `json:"qty" bson:"qty"`
	Price float64 `json:"price" bson:"price"`
	Total float64 `json:"total" bson:"total"`
}

// PartRequest is a technician-initiated ask for an unplanned part, requiring
// supervisor approval before being added to billed parts.
type PartRequest struct {
	ID        string            `json:"id" bson:"id"`
	Name      string            `json:"name" bson:"name"`
	Status    PartRequestStatus `json:"status" bson:"status"`
	Timestamp time.Time         `json:"timestamp" bson:"timestamp"`
}

// StatusLog is an append-only audit entry recorded on every transition.
type StatusLog struct {
	Status JobStatus `json:"status" bson:"status"`
	Time   time.Time `json:"time" bson:"time"`
	Reason string    `json:"reason,omitempty" bson:"reason,omitempty"`
}

// Job represents a vehicle service work order from intake to delivery.
type Job struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	// Vehicle
	Registration string  `json:"registration" bson:"registration"` // normalized uppercase, secondary lookup key
	Model        string  `json:"model" bson:"model"`
	Variant      string  `json:"variant" bson:"variant"`
	FuelType     string  `json:"fuel_type" bson:"fuel_type"`
	BodyType     string  `json:"body_type" bson:"body_type"`
	Odometer     float64 `json:"odometer" bson:"odometer"`
	VIN          string  `json:"vin" bson:"vin"`
	EngineNumber string  `json:"engine_number" bson:"engine_number"`

	// Customer
	CustomerName  string `json:"customer_name" bson:"customer_name"`
	CustomerPhone string `json:"customer_phone" bson:"customer_phone"`
	BillingName   string `json:"billing_name" bson:"billing_name"`
	GSTIN         string `json:"gstin" bson:"gstin"`
	Address       string `json:"address" bson:"address"`

	// Workflow
	Status         JobStatus `json:"status" bson:"status"`
	TechnicianID   string    `json:"technician_id" bson:"technician_id"`
	TechnicianName string    `json:"technician_name" bson:"technician_name"`
	PauseReason    string    `json:"pause_reason,omitempty" bson:"pause_reason,omitempty"`

	// Tasks
	Blocks []TaskBlock `json:"blocks" bson:"blocks"`

	// Financials
	Parts    []LineItem `json:"parts" bson:"parts"`
	Labor    []LineItem `json:"labor" bson:"labor"`
	Expenses []LineItem `json:"expenses" bson:"expenses"`

	PartRequests []PartRequest `json:"part_requests" bson:"part_requests"`
	StatusLogs   []StatusLog   `json:"status_logs" bson:"status_logs"`

	// Version is a compare-and-swap token bumped on every update.
	Version     int64      `json:"version" bson:"version"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// NormalizeRegistration uppercases a registration number and strips all
// whitespace so it can serve as a lookup key.
func NormalizeRegistration(reg string) string {
	return strings.ToUpper(strings.Join(strings.Fields(reg), ""))
}

// NewLineItem builds a line item with its total derived from qty and price.
func NewLineItem(id, desc string, qty, price float64) LineItem {
	return LineItem{ID: id, Desc: desc, Qty: qty, Price: price, Total: qty * price}
}
