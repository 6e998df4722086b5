package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryCode(t *testing.T) {
	tests := []struct {
		name    string
		country string
		want    string
	}{
		{"Plain English name", "France", "fr"},
		{"Accented native name", "España", "es"},
		{"Multi-word name", "United States of America", "us"},
		{"Common abbreviation", "UK", "gb"},
		{"Two-letter passthrough lowercased", "FR", "fr"},
		{"Unknown country", "Atlantis", ""},
		{"Empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountryCode(tt.country))
		})
	}
}

func TestDialingCountry(t *testing.T) {
	assert.Equal(t, "fr", DialingCountry("33"))
	assert.Equal(t, "fr", DialingCountry("+33"))
	assert.Equal(t, "us", DialingCountry("1"))
	assert.Equal(t, "pt", DialingCountry("351"))
	assert.Equal(t, "", DialingCountry("999"))
}

func TestSplitDialing(t *testing.T) {
	tests := []struct {
		name    string
		digits  string
		dialing string
		number  string
		ok      bool
	}{
		{"One-digit code", "14155550100", "1", "4155550100", true},
		{"Two-digit code", "33631092519", "33", "631092519", true},
		{"Three-digit code", "351912345678", "351", "912345678", true},
		{"Unknown prefix", "999123456", "", "999123456", false},
		{"Code with no national number", "33", "", "33", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialing, number, ok := SplitDialing(tt.digits)
			assert.Equal(t, tt.dialing, dialing)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		name string
		lang string
		want string
	}{
		{"English name", "French", "fre"},
		{"Accented native name", "Français", "fre"},
		{"Two-letter tag", "en", "eng"},
		{"Terminology code mapped to bibliographic", "deu", "ger"},
		{"Unknown language truncated to three letters", "Klingon", "kli"},
		{"Empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageCode(tt.lang))
		})
	}
}

func TestLevelToCEFR(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"native", "C2"},
		{"Full professional proficiency", "C2"},
		{"professional working", "C1"},
		{"limited working", "B2"},
		{"intermediate", "B2"},
		{"elementary", "A2"},
		{"basic", "A2"},
		{"", "B1"},
		{"conversational", "B1"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelToCEFR(tt.level))
		})
	}
}
