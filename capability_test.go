package converters

import "testing"

func TestCapabilityValidation(t *testing.T) {
	tests := []struct {
		name  string
		valid func(string) bool
		known []string
	}{
		{
			name:  "hash",
			valid: func(s string) bool { return IsValidHashAlgo(HashAlgo(s)) },
			known: []string{"sha256", "sha512", "blake2b"},
		},
		{
			name:  "encrypt",
			valid: func(s string) bool { return IsValidEncryptAlgo(EncryptAlgo(s)) },
			known: []string{"aes", "envelope"},
		},
		{
			name:  "mask",
			valid: func(s string) bool { return IsValidMaskType(MaskType(s)) },
			known: []string{"ssn", "email", "phone", "card", "ip", "uuid", "iban", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.known {
				if !tt.valid(k) {
					t.Errorf("%q should be valid", k)
				}
			}
			for _, k := range []string{"", "unknown", "SHA256", "argon2"} {
				if tt.valid(k) {
					t.Errorf("%q should be invalid", k)
				}
			}
		})
	}
}

func TestBuiltinHashers_CoverValidAlgos(t *testing.T) {
	hashers := builtinHashers()
	for algo := range validHashAlgos {
		if _, ok := hashers[algo]; !ok {
			t.Errorf("builtinHashers() missing %q", algo)
		}
	}
}
