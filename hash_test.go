package converters

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuiltinHashers_Hash(t *testing.T) {
	tests := []struct {
		algo  HashAlgo
		input string
		want  string
	}{
		{HashSHA256, "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{HashBLAKE2b, "", "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"},
	}

	hashers := builtinHashers()
	for _, tt := range tests {
		t.Run(string(tt.algo), func(t *testing.T) {
			got, err := hashers[tt.algo].Hash([]byte(tt.input))
			if err != nil {
				t.Fatalf("Hash() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Hash(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuiltinHashers_Length(t *testing.T) {
	lengths := map[HashAlgo]int{
		HashSHA256:  64,
		HashSHA512:  128,
		HashBLAKE2b: 64,
	}

	hashers := builtinHashers()
	for algo, want := range lengths {
		h, ok := hashers[algo]
		if !ok {
			t.Fatalf("builtinHashers missing %q", algo)
		}
		got, err := h.Hash([]byte("test"))
		if err != nil {
			t.Fatalf("%s Hash() error: %v", algo, err)
		}
		if len(got) != want {
			t.Errorf("%s Hash() length = %d, want %d", algo, len(got), want)
		}
	}
}

func TestBuiltinHashers_Deterministic(t *testing.T) {
	for algo, h := range builtinHashers() {
		a, _ := h.Hash([]byte("same input"))
		b, _ := h.Hash([]byte("same input"))
		if a != b {
			t.Errorf("%s should be deterministic", algo)
		}
	}
}

func TestBLAKE2bKeyedHasher(t *testing.T) {
	keyed := BLAKE2bKeyedHasher([]byte("secret-key"))
	plain := BLAKE2bHasher()

	a, err := keyed.Hash([]byte("value"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	b, _ := plain.Hash([]byte("value"))
	if a == b {
		t.Error("keyed and unkeyed digests should differ")
	}
}

func TestBLAKE2bKeyedHasher_KeyTooLong(t *testing.T) {
	h := BLAKE2bKeyedHasher(bytes.Repeat([]byte("k"), 65))

	_, err := h.Hash([]byte("value"))
	if err == nil {
		t.Fatal("Hash() should fail for a 65-byte key")
	}
	if errors.Is(err, ErrHash) {
		t.Error("raw hasher errors are not wrapped with ErrHash")
	}
}
