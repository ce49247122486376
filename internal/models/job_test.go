package models

import (
	"testing"
)

func TestNormalizeRegistration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase with spaces", "ka 01 ab 1234", "KA01AB1234"},
		{"already normalized", "KA01AB1234", "KA01AB1234"},
		{"mixed case tabs", "ka\t01 Ab1234", "KA01AB1234"},
		{"leading and trailing space", "  MH12DE1433 ", "MH12DE1433"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRegistration(tt.input); got != tt.expected {
				t.Errorf("NormalizeRegistration(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	valid := []JobStatus{
		StatusEstimate, StatusWorkInProgress, StatusWorkPaused,
		StatusWaitingParts, StatusReady, StatusDelivered,
	}
	for _, status := range valid {
		if !IsValidStatus(status) {
			t.Errorf("IsValidStatus(%s) = false, want true", status)
		}
	}
	for _, status := range []JobStatus{"", "DONE", "estimate"} {
		if IsValidStatus(status) {
			t.Errorf("IsValidStatus(%s) = true, want false", status)
		}
	}
}

func TestNewLineItem(t *testing.T) {
	item := NewLineItem("li-1", "Front Brake Pads", 2, 1100)
	if item.Total != 2200 {
		t.Errorf("Total = %v, want 2200", item.Total)
	}
	if item.Qty != 2 || item.Price != 1100 {
		t.Errorf("unexpected qty/price: %v/%v", item.Qty, item.Price)
	}
}
