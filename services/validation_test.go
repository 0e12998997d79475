package services

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"ops@terracotta.example", true},
		{" first.last+tag@sub.example.co ", true},
		{"no-at-sign", false},
		{"a@b", false},
		{"a@b.c", false},
	}
	for _, tt := range tests {
		if got := ValidateEmail(tt.in); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"555-0100", true},
		{"+1 (555) 010-0100", true},
		{"555.010.0100", true},
		{"12345", false},
		{"1234567890123456", false},
		{"555-CALL-NOW", false},
	}
	for _, tt := range tests {
		if got := ValidatePhone(tt.in); got != tt.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
