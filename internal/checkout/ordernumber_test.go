package checkout

import "testing"

func TestRandomOrderNumbersShape(t *testing.T) {
	gen := RandomOrderNumbers{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		number, err := gen.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !IsOrderNumber(number) {
			t.Fatalf("malformed order number %q", number)
		}
		seen[number] = true
	}
	if len(seen) < 199 {
		t.Fatalf("expected order numbers to be effectively unique, got %d distinct", len(seen))
	}
}

func TestIsOrderNumber(t *testing.T) {
	cases := map[string]bool{
		"ABCD1234":  true,
		"00000000":  true,
		"abcd1234":  false,
		"ABC1234":   false,
		"ABCD12345": false,
		"ABCD-234":  false,
	}
	for input, expected := range cases {
		if IsOrderNumber(input) != expected {
			t.Fatalf("IsOrderNumber(%q) expected %v", input, expected)
		}
	}
}
