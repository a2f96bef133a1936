package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEAN13(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"4006381333931", true},
		{"4006381333930", false},
		{"5901234123457", true},
		{"9783161484100", true},
		{"9783161484101", false},
		{"400638133393", false},   // too short
		{"40063813339311", false}, // too long
		{"400638133393a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateEAN13(tt.code))
		})
	}
}

func TestValidateEAN8(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"73513537", true},
		{"73513536", false},
		{"96385074", true},
		{"7351353", false},
		{"735135370", false},
		{"7351353a", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateEAN8(tt.code))
		})
	}
}

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		scheme Scheme
		valid  bool
	}{
		{"valid ean13", "4006381333931", SchemeEAN13, true},
		{"ean13 with bad checksum degrades to numeric", "4006381333930", SchemeNumeric, true},
		{"valid ean8", "73513537", SchemeEAN8, true},
		{"plain numeric", "77988690123", SchemeNumeric, true},
		{"non digits", "abc-123", SchemeNumeric, false},
		{"empty", "", SchemeNumeric, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClassifyIdentifier(tt.code)
			assert.Equal(t, tt.scheme, c.Scheme)
			assert.Equal(t, tt.valid, c.Valid)
		})
	}
}

func TestClassificationMapping(t *testing.T) {
	c := ClassifyIdentifier("4006381333931")
	assert.Equal(t, IdentifierTypeGTIN13, c.IdentifierType())
	assert.Equal(t, "EAN13", c.Symbology())

	c = ClassifyIdentifier("73513537")
	assert.Equal(t, IdentifierTypeEAN8, c.IdentifierType())
	assert.Equal(t, "EAN8", c.Symbology())

	c = ClassifyIdentifier("123456789")
	assert.Equal(t, IdentifierTypeOther, c.IdentifierType())
	assert.Empty(t, c.Symbology())
}

func TestDetectInput(t *testing.T) {
	tests := []struct {
		raw  string
		kind InputKind
	}{
		{"https://example.com/product/123", InputURL},
		{"http://example.com", InputURL},
		{"HTTPS://EXAMPLE.COM", InputURL},
		{"77988690", InputBarcode},
		{"4006381333931", InputBarcode},
		{"1234567", InputUnknown}, // 7 digits, below barcode threshold
		{"hello world", InputUnknown},
		{"", InputUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.kind, DetectInput(tt.raw))
		})
	}
}

func TestIsISBN13(t *testing.T) {
	assert.True(t, IsISBN13("9783161484100"))
	assert.True(t, IsISBN13("9790000000001"))
	assert.False(t, IsISBN13("4006381333931"))
	assert.False(t, IsISBN13("978316148410"))
}

func TestNormalizeScannedInput(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeScannedInput("  httpsÑ--example.com "))
	assert.Equal(t, "https:/example.com", NormalizeScannedInput("httpsÑ-example.com"))
	assert.Equal(t, "a:b", NormalizeScannedInput("aÑb"))
	assert.Equal(t, "77988690", NormalizeScannedInput(" 77988690\n"))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/product/123", NormalizeURL("https://example.com/product/123"))
	assert.Equal(t, "https://example.com", NormalizeURL("example.com"))
	// Unparsable input comes back untouched
	assert.Equal(t, "%zz", NormalizeURL("%zz"))
}
