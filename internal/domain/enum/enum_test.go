package enum

import (
	"encoding/json"
	"testing"
)

func TestCopyStatusJSON(t *testing.T) {
	for _, s := range CopyStatuses() {
		out, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		var back CopyStatus
		if err := json.Unmarshal(out, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", out, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %s -> %v", s, out, back)
		}
	}

	var s CopyStatus
	if err := json.Unmarshal([]byte(`2`), &s); err != nil || s != CopyStatusScrapped {
		t.Errorf("numeric unmarshal = %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"Lost"`), &s); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSequenceKinds(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"purchase", StockTypePurchase.SequenceKind(), "purchase"},
		{"scrap", StockTypeScrap.SequenceKind(), "scrap"},
		{"issue", CirculationTypeIssue.SequenceKind(), "issue"},
		{"return", CirculationTypeReturn.SequenceKind(), "return"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestScanNil(t *testing.T) {
	s := CopyStatusIssued
	if err := s.Scan(nil); err != nil || s != CopyStatusAvailable {
		t.Errorf("Scan(nil) = %v, %v", s, err)
	}
	var st StockType
	if err := st.Scan(int64(1)); err != nil || st != StockTypeScrap {
		t.Errorf("Scan(1) = %v, %v", st, err)
	}
}
