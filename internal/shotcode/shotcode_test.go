package shotcode_test

import (
	"errors"
	"strconv"
	"testing"

	"reel/internal/faults"
	"reel/internal/shotcode"
)

func TestCodeRoundTrip(t *testing.T) {
	codec := shotcode.Default()
	for n := 1; n <= 999; n++ {
		code, err := codec.CodeInt(n)
		if err != nil {
			t.Fatalf("CodeInt(%d) failed: %v", n, err)
		}
		number, err := codec.Number(code)
		if err != nil {
			t.Fatalf("Number(%q) failed: %v", code, err)
		}
		if number != strconv.Itoa(n) {
			t.Fatalf("round trip %d -> %q -> %q", n, code, number)
		}
	}
}

func TestAlternateSuffixPreserved(t *testing.T) {
	codec := shotcode.Default()
	for _, letter := range shotcode.Alternates {
		number := "12" + string(letter)
		code, err := codec.Code(number)
		if err != nil {
			t.Fatalf("Code(%q) failed: %v", number, err)
		}
		if code != "SH012"+string(letter) {
			t.Fatalf("unexpected code %q", code)
		}
		back, err := codec.Number(code)
		if err != nil || back != number {
			t.Fatalf("Number(%q) = %q, %v", code, back, err)
		}
	}
}

func TestCodeNormalizesInput(t *testing.T) {
	codec := shotcode.Codec{Prefix: "SH", Padding: 4}
	cases := map[string]string{
		"7":      "SH0007",
		"12a":    "SH0012A",
		" 0012 ": "SH0012",
		"sh0003": "SH0003",
		"12345":  "SH12345",
	}
	for input, want := range cases {
		got, err := codec.Code(input)
		if err != nil {
			t.Fatalf("Code(%q) failed: %v", input, err)
		}
		if got != want {
			t.Fatalf("Code(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCodeRejectsMalformed(t *testing.T) {
	codec := shotcode.Default()
	for _, input := range []string{"", "A12", "12AB", "12-", "SH"} {
		_, err := codec.Code(input)
		var codeErr *shotcode.CodeError
		if !errors.As(err, &codeErr) {
			t.Fatalf("Code(%q): expected CodeError, got %v", input, err)
		}
		if !errors.Is(err, faults.ErrValidation) {
			t.Fatalf("Code(%q): expected validation marker", input)
		}
	}
}

func TestNextAlternate(t *testing.T) {
	codec := shotcode.Default()
	got, ok, err := codec.NextAlternate("12", []string{"12", "SH012A", "12b", "13A"})
	if err != nil {
		t.Fatalf("NextAlternate failed: %v", err)
	}
	if !ok || got != "12C" {
		t.Fatalf("NextAlternate = %q, %v; want 12C", got, ok)
	}
}

func TestNextAlternateExhausted(t *testing.T) {
	codec := shotcode.Default()
	existing := []string{"4"}
	for _, letter := range shotcode.Alternates {
		existing = append(existing, "4"+string(letter))
	}
	if len(shotcode.Alternates) != 25 {
		t.Fatalf("expected 25 alternate letters, got %d", len(shotcode.Alternates))
	}
	got, ok, err := codec.NextAlternate("SH004", existing)
	if err != nil {
		t.Fatalf("NextAlternate failed: %v", err)
	}
	if ok || got != "" {
		t.Fatalf("expected exhaustion, got %q", got)
	}
}
