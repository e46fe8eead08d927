package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"two letters", "AA", false},
		{"lowercase", "valve", false},
		{"with dash", "north-1", false},
		{"with underscore", "tunnel_3", false},
		{"digits", "42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("A", 65), true},
		{"space", "A A", true},
		{"comma", "AA,BB", true},
		{"semicolon", "AA;", true},
		{"control char", "A\x01", true},
		{"newline", "A\nB", true},
		{"leading dash", "-A", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidNode) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidNode)
			}
		})
	}
}

func TestValidateRate(t *testing.T) {
	if err := ValidateRate("AA", 0); err != nil {
		t.Errorf("zero rate should pass: %v", err)
	}
	if err := ValidateRate("BB", 13); err != nil {
		t.Errorf("positive rate should pass: %v", err)
	}
	err := ValidateRate("CC", -1)
	if !Is(err, ErrCodeInvalidRate) {
		t.Errorf("negative rate code = %v, want %v", GetCode(err), ErrCodeInvalidRate)
	}
}

func TestValidateBudget(t *testing.T) {
	tests := []struct {
		minutes int
		wantErr bool
	}{
		{0, false},
		{26, false},
		{30, false},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateBudget("minutes", tt.minutes)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateBudget(%d) error = %v, wantErr %v", tt.minutes, err, tt.wantErr)
		}
	}
}

func TestValidateRedisAddr(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"localhost", "localhost:6379", false},
		{"ip", "10.0.0.5:6380", false},

		{"empty", "", true},
		{"url", "redis://localhost:6379", true},
		{"no port", "localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRedisAddr(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRedisAddr(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMongoURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"standard", "mongodb://localhost:27017", false},
		{"srv", "mongodb+srv://cluster.example.com", false},

		{"empty", "", true},
		{"http", "http://localhost:27017", true},
		{"no scheme", "localhost:27017", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMongoURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMongoURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
