package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAccountNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"long opaque id", "ACCT123456", true},
		{"prop firm style id", "APEX-12345-68", true},
		{"too short", "ACCT1234", false},
		{"all digits", "1234567890", false},
		{"section label Account", "Account", false},
		{"section label Entry Order Number", "Entry Order Number", false},
		{"contract code", "ESZ4", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsAccountNumber(tt.in))
		})
	}
}

func TestIsInstrument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"quarterly contract", "ESZ4", true},
		{"micro contract", "MESZ4", true},
		{"two digit year", "NQH25", true},
		{"lowercase", "esz4", false},
		{"letters only", "ES", false},
		{"too many letters", "ABCDEZ4", false},
		{"digits only", "1234", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsInstrument(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Marker
	}{
		{"account id", "ACCT123456", MarkerAccountNumber},
		{"instrument", "MESZ4", MarkerInstrument},
		{"section label", "Entry Order Number", MarkerSectionHeader},
		{"account group label", "Account", MarkerSectionHeader},
		{"plain cell", "100.25", MarkerNone},
		{"padded section label", "  Account  ", MarkerSectionHeader},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}
