package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// OBDCode is a static diagnostic reference record, independent of any job.
type OBDCode struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code            string             `json:"code" bson:"code"`
	Title           string             `json:"title" bson:"title"`
	Severity        string             `json:"severity" bson:"severity"` // "low", "medium", "high", "critical"
	Symptoms        []string           `json:"symptoms" bson:"symptoms"`
	DiagnosticSteps []string           `json:"diagnostic_steps" bson:"diagnostic_steps"`
	PotentialParts  []string           `json:"potential_parts" bson:"potential_parts"`
}
