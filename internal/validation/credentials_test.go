package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "password123", false},
		{"exactly min length", "abcdef12", false},
		{"too short", "abc1", true},
		{"too long", strings.Repeat("a", 128) + "1x", true},
		{"letters only", "abcdefghij", true},
		{"digits only", "1234567890", true},
		{"unicode letters with digit", "пароль12345", false},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Alisher Иванов", false},
		{"minimum", "Ali", false},
		{"too short after trim", "  ab  ", true},
		{"too long", strings.Repeat("x", 101), true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"uzbek format with plus", "+998901234567", false},
		{"digits only", "998901234567", false},
		{"nine digits", "901234567", false},
		{"too short", "12345678", true},
		{"too long", "+1234567890123456", true},
		{"letters", "+99890abc4567", true},
		{"spaces", "+998 90 123 45 67", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePhone(tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
