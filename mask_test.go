package converters

import (
	"testing"
)

func TestBuiltinMaskers_Mask(t *testing.T) {
	tests := []struct {
		mask  MaskType
		input string
		want  string
	}{
		{MaskSSN, "123-45-6789", "***-**-6789"},
		{MaskSSN, "123456789", "***-**-6789"},
		{MaskSSN, "123", "***"},

		{MaskEmail, "alice@example.com", "a***@example.com"},
		{MaskEmail, "a@b.com", "a***@b.com"},
		{MaskEmail, "noatsign", "********"},
		{MaskEmail, "@example.com", "************"},

		{MaskPhone, "(555) 123-4567", "(***) ***-4567"},
		{MaskPhone, "555-123-4567", "***-***-4567"},
		{MaskPhone, "5551234567", "***-***-4567"},
		{MaskPhone, "123-4567", "***-4567"},
		{MaskPhone, "123", "***"},

		{MaskCard, "4111111111111111", "************1111"},
		{MaskCard, "4111 1111 1111 1111", "**** **** **** 1111"},
		{MaskCard, "4111-1111-1111-1111", "****-****-****-1111"},
		{MaskCard, "123", "***"},

		{MaskIP, "192.168.1.100", "192.168.xxx.xxx"},
		{MaskIP, "10.0.0.1", "10.0.xxx.xxx"},
		{MaskIP, "2001:0db8:85a3:0000:0000:8a2e:0370:7334", "2001:0db8:85a3:0000:xxxx:xxxx:xxxx:xxxx"},
		{MaskIP, "2001:db8:85a3::8a2e:370:7334", "2001:0db8:85a3:0000:xxxx:xxxx:xxxx:xxxx"},
		{MaskIP, "::1", "0000:0000:0000:0000:xxxx:xxxx:xxxx:xxxx"},
		{MaskIP, "invalid", "*******"},

		{MaskUUID, "550e8400-e29b-41d4-a716-446655440000", "550e8400-****-****-****-************"},
		{MaskUUID, "invalid", "*******"},

		{MaskIBAN, "GB82WEST12345698765432", "GB82**************5432"},
		{MaskIBAN, "SHORT", "*****"},

		{MaskName, "John Smith", "J*** S****"},
		{MaskName, "Bob Jones Jr", "B** J**** J*"},
		{MaskName, "Émile", "É****"},
	}

	maskers := builtinMaskers()
	for _, tt := range tests {
		t.Run(string(tt.mask)+"/"+tt.input, func(t *testing.T) {
			m, ok := maskers[tt.mask]
			if !ok {
				t.Fatalf("builtinMaskers missing %q", tt.mask)
			}
			if got := m.Mask(tt.input); got != tt.want {
				t.Errorf("Mask(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuiltinMaskers_CoverValidTypes(t *testing.T) {
	maskers := builtinMaskers()
	for mt := range validMaskTypes {
		if _, ok := maskers[mt]; !ok {
			t.Errorf("builtinMaskers missing %q", mt)
		}
	}
	if len(maskers) != len(validMaskTypes) {
		t.Errorf("builtinMaskers has %d entries, want %d", len(maskers), len(validMaskTypes))
	}
}

func TestMaskerFunc(t *testing.T) {
	m := MaskerFunc(func(string) string { return "x" })
	if got := m.Mask("anything"); got != "x" {
		t.Errorf("Mask() = %q, want %q", got, "x")
	}
}
