package common

import "testing"

func TestMakeRandHexString_Length(t *testing.T) {
	t.Parallel()

	s, err := MakeRandHexString(12)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if len(s) != 24 {
		t.Fatalf("expected 24 hex chars, got %d (%q)", len(s), s)
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Fatalf("non-hex char %q in %q", c, s)
		}
	}
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	t.Parallel()

	a, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	b, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if a == b {
		t.Fatalf("two random strings are equal: %q", a)
	}
}

func TestMakeRandBase36String(t *testing.T) {
	t.Parallel()

	s, err := MakeRandBase36String(8)
	if err != nil {
		t.Fatalf("MakeRandBase36String error: %v", err)
	}
	if len(s) != 8 {
		t.Fatalf("expected 8 chars, got %d", len(s))
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')) {
			t.Fatalf("char %q outside base36 alphabet in %q", c, s)
		}
	}
}

func TestGenerateRandByteArray(t *testing.T) {
	t.Parallel()

	b := GenerateRandByteArray(32)
	if len(b) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(b))
	}
}
