package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare ten digits", "7325550101", "7325550101", false},
		{"formatted domestic", "(732) 555-0101", "7325550101", false},
		{"dots and spaces", "732.555 0101", "7325550101", false},
		{"with country prefix", "+17325559999", "+17325559999", false},
		{"eleven digits no plus", "17325559999", "+17325559999", false},
		{"international", "+442071838750", "+442071838750", false},
		{"too short", "555-0101", "", true},
		{"empty", "", "", true},
		{"letters only", "call me", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.IsType(t, ValidationError{}, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once, err := NormalizePhone("(732) 555-0101")
	require.NoError(t, err)

	twice, err := NormalizePhone(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizePhoneDedupKey(t *testing.T) {
	a, err := NormalizePhone("(732) 555-0101")
	require.NoError(t, err)
	b, err := NormalizePhone("7325550101")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestToE164(t *testing.T) {
	assert.Equal(t, "+17325550101", ToE164("7325550101"))
	assert.Equal(t, "+442071838750", ToE164("+442071838750"))
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "parent@example.com", "parent@example.com", false},
		{"uppercase", "Parent@Example.COM", "parent@example.com", false},
		{"surrounding whitespace", "  parent@example.com\t", "parent@example.com", false},
		{"missing at", "parent.example.com", "", true},
		{"empty local part", "@example.com", "", true},
		{"empty domain", "parent@", "", true},
		{"double at", "parent@foo@example.com", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmail(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEmailIdempotent(t *testing.T) {
	once, err := NormalizeEmail(" Teacher@School.Org ")
	require.NoError(t, err)

	twice, err := NormalizeEmail(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizePhonesDropsInvalid(t *testing.T) {
	normalized, dropped := NormalizePhones([]string{
		"(732) 555-0201",
		"bad",
		"+17325559999",
		"123",
	})

	assert.Equal(t, []string{"7325550201", "+17325559999"}, normalized)
	assert.Equal(t, []string{"bad", "123"}, dropped)
}

func TestNormalizeEmailsDropsInvalid(t *testing.T) {
	normalized, dropped := NormalizeEmails([]string{
		"A@example.com",
		"not-an-email",
		"b@example.com",
	})

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, normalized)
	assert.Equal(t, []string{"not-an-email"}, dropped)
}
