package catalog

import (
	"net/url"
	"regexp"
	"strings"
)

// Scheme is the low-level classification of a scanned code
type Scheme string

const (
	SchemeEAN13   Scheme = "EAN13"
	SchemeEAN8    Scheme = "EAN8"
	SchemeNumeric Scheme = "NUMERIC"
)

// InputKind is the high-level classification of a raw scanned string
type InputKind string

const (
	InputBarcode InputKind = "barcode"
	InputURL     InputKind = "url"
	InputUnknown InputKind = "unknown"
)

var (
	urlPattern     = regexp.MustCompile(`(?i)^https?://`)
	barcodePattern = regexp.MustCompile(`^\d{8,}$`)
)

// Classification is the result of classifying a scanned code
type Classification struct {
	Scheme Scheme
	Valid  bool
}

// IdentifierType maps the scheme onto the persisted identifier type
func (c Classification) IdentifierType() IdentifierType {
	switch c.Scheme {
	case SchemeEAN13:
		return IdentifierTypeGTIN13
	case SchemeEAN8:
		return IdentifierTypeEAN8
	default:
		return IdentifierTypeOther
	}
}

// Symbology returns the barcode symbology for the scheme, empty when unknown
func (c Classification) Symbology() string {
	switch c.Scheme {
	case SchemeEAN13:
		return "EAN13"
	case SchemeEAN8:
		return "EAN8"
	default:
		return ""
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateEAN13 reports whether code is a 13-digit string with a valid
// EAN-13 checksum. Digits at even positions weigh 1, odd positions weigh 3;
// check digit = (10 - sum mod 10) mod 10.
func ValidateEAN13(code string) bool {
	if len(code) != 13 || !isDigits(code) {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(code[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return check == int(code[12]-'0')
}

// ValidateEAN8 reports whether code is an 8-digit string with a valid EAN-8
// checksum (weights 3,1,3,1,3,1,3 over the first 7 digits).
func ValidateEAN8(code string) bool {
	if len(code) != 8 || !isDigits(code) {
		return false
	}
	weights := [7]int{3, 1, 3, 1, 3, 1, 3}
	sum := 0
	for i := 0; i < 7; i++ {
		sum += int(code[i]-'0') * weights[i]
	}
	check := (10 - sum%10) % 10
	return check == int(code[7]-'0')
}

// ClassifyIdentifier classifies a scanned code. Any input classifies to some
// result; an all-digit string failing the length-specific checksums degrades
// to NUMERIC, and a non-digit string to NUMERIC with Valid=false.
func ClassifyIdentifier(code string) Classification {
	if len(code) == 13 && ValidateEAN13(code) {
		return Classification{Scheme: SchemeEAN13, Valid: true}
	}
	if len(code) == 8 && ValidateEAN8(code) {
		return Classification{Scheme: SchemeEAN8, Valid: true}
	}
	if isDigits(code) {
		return Classification{Scheme: SchemeNumeric, Valid: true}
	}
	return Classification{Scheme: SchemeNumeric, Valid: false}
}

// DetectInput decides how a raw scanned string should be handled
func DetectInput(raw string) InputKind {
	if urlPattern.MatchString(raw) {
		return InputURL
	}
	if barcodePattern.MatchString(raw) {
		return InputBarcode
	}
	return InputUnknown
}

// IsISBN13 reports whether an EAN-13 value falls in the ISBN bookland range
func IsISBN13(ean13 string) bool {
	return len(ean13) == 13 && isDigits(ean13) &&
		(strings.HasPrefix(ean13, "978") || strings.HasPrefix(ean13, "979"))
}

// NormalizeScannedInput trims the input and undoes keyboard-layout artifacts
// some scanners produce for the ':' character (Ñ on Spanish layouts).
func NormalizeScannedInput(input string) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "Ñ--", "://")
	s = strings.ReplaceAll(s, "Ñ-", ":/")
	s = strings.ReplaceAll(s, "Ñ", ":")
	return s
}

// NormalizeURL resolves raw into an absolute URL string, assuming https when
// no protocol is present. Unparsable input is returned as-is.
func NormalizeURL(raw string) string {
	candidate := raw
	if !strings.HasPrefix(candidate, "http") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.String()
}
