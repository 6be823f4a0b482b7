package billing

import "testing"

func TestNextDocumentNumber(t *testing.T) {
	tests := []struct {
		name   string
		last   string
		prefix string
		want   string
	}{
		{"increments suffix", "TIN7", "TIN", "TIN8"},
		{"carries digits", "TIN99", "TIN", "TIN100"},
		{"keeps stored prefix", "OLD41", "TIN", "OLD42"},
		{"drops leading zeros", "BSN007", "BSN", "BSN8"},
		{"empty restarts", "", "TIN", "TIN1"},
		{"no digits restarts", "XYZ", "TIN", "TIN1"},
		{"digits only restarts", "42", "ISS", "ISS1"},
		{"separator restarts", "TIN-7", "TIN", "TIN1"},
		{"trims whitespace", "  RET3 ", "RET", "RET4"},
		{"beyond int64", "ACC99999999999999999999", "ACC", "ACC100000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDocumentNumber(tt.last, tt.prefix); got != tt.want {
				t.Errorf("NextDocumentNumber(%q, %q) = %q, want %q", tt.last, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestParseDocumentNumber(t *testing.T) {
	prefix, n, ok := ParseDocumentNumber("ISS12")
	if !ok || prefix != "ISS" || n.Int64() != 12 {
		t.Errorf("ParseDocumentNumber(ISS12) = %q, %v, %v", prefix, n, ok)
	}
	if _, _, ok := ParseDocumentNumber("ISS"); ok {
		t.Error("prefix without digits should not parse")
	}
}

func TestNextDocumentNumberStrictlyIncreases(t *testing.T) {
	last := FirstDocumentNumber("TIN")
	for i := 0; i < 50; i++ {
		next := NextDocumentNumber(last, "TIN")
		_, a, _ := ParseDocumentNumber(last)
		_, b, _ := ParseDocumentNumber(next)
		if b.Cmp(a) <= 0 {
			t.Fatalf("%s does not follow %s", next, last)
		}
		last = next
	}
	if last != "TIN51" {
		t.Errorf("after 50 steps got %s, want TIN51", last)
	}
}
