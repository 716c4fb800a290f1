package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedReceiptGenerator(now time.Time, fill byte) *ReceiptGenerator {
	return &ReceiptGenerator{
		now: func() time.Time { return now },
		random: func(b []byte) (int, error) {
			for i := range b {
				b[i] = fill
			}
			return len(b), nil
		},
	}
}

func TestReceiptGeneratorFormat(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	g := fixedReceiptGenerator(now, 0xab)

	got, err := g.Generate("user42")
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}

	want := "user42_loyw3v28_abababababab"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestReceiptGeneratorEmptyHintUsesPrefix(t *testing.T) {
	g := fixedReceiptGenerator(time.UnixMilli(0), 0x01)

	got, err := g.Generate("")
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if !strings.HasPrefix(got, defaultReceiptPrefix+"_") {
		t.Errorf("Generate(\"\") = %q, want %q prefix", got, defaultReceiptPrefix)
	}
}

func TestReceiptGeneratorTruncatesPreservingSuffix(t *testing.T) {
	g := fixedReceiptGenerator(time.Now(), 0xff)
	hint := strings.Repeat("h", 60)

	got, err := g.Generate(hint)
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if len(got) != MaxReceiptLength {
		t.Errorf("len(Generate()) = %d, want %d", len(got), MaxReceiptLength)
	}
	if !strings.HasSuffix(got, "_ffffffffffff") {
		t.Errorf("Generate() = %q, random suffix lost", got)
	}
	if !strings.HasPrefix(got, "hhhh") {
		t.Errorf("Generate() = %q, want hint kept from the left", got)
	}
}

func TestReceiptGeneratorLengthBounds(t *testing.T) {
	g := NewReceiptGenerator()
	hints := []string{"", "a", "65f1c2d3e4b5a69788123456", strings.Repeat("x", 200), "ユーザー", "u-1/2"}

	seen := make(map[string]bool)
	for _, hint := range hints {
		for i := 0; i < 50; i++ {
			got, err := g.Generate(hint)
			if err != nil {
				t.Fatalf("Generate(%q) error = %v", hint, err)
			}
			if len(got) == 0 || len(got) > MaxReceiptLength {
				t.Fatalf("Generate(%q) = %q, length %d out of bounds", hint, got, len(got))
			}
			if seen[got] {
				t.Fatalf("Generate(%q) repeated receipt %q", hint, got)
			}
			seen[got] = true
		}
	}
}

func TestReceiptGeneratorRandomFailure(t *testing.T) {
	g := &ReceiptGenerator{
		now:    time.Now,
		random: func([]byte) (int, error) { return 0, errors.New("entropy unavailable") },
	}

	if _, err := g.Generate("u1"); err == nil {
		t.Fatal("expected error when randomness fails")
	}
}

func TestReceiptHint(t *testing.T) {
	tests := []struct {
		userID string
		n      int
		want   string
	}{
		{"65f1c2d3e4b5a69788123456", 12, "a69788123456"},
		{"u1", 12, "u1"},
		{"user-id_with.punct", 6, "hpunct"},
		{"", 12, ""},
		{"abc", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			if got := ReceiptHint(tt.userID, tt.n); got != tt.want {
				t.Errorf("ReceiptHint(%q, %d) = %q, want %q", tt.userID, tt.n, got, tt.want)
			}
		})
	}
}
