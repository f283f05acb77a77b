package dashboard

import "testing"

func TestBandFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "Excellent"},
		{80, "Excellent"},
		{79.99, "Good"},
		{70, "Good"},
		{69.9, "Fair"},
		{0, "Fair"},
	}
	for _, tt := range tests {
		if got := BandFor(tt.score).Label; got != tt.want {
			t.Errorf("BandFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestBandsHaveColours(t *testing.T) {
	for _, b := range []Band{BandExcellent, BandGood, BandFair} {
		if b.Color == "" || b.Badge == "" {
			t.Errorf("%s band is missing a colour: %+v", b.Label, b)
		}
	}
}
