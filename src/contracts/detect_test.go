package contracts

import "testing"

func TestDetectInstrumentType(t *testing.T) {
	cases := []struct {
		symbol string
		want   string
	}{
		{"ES", "future"},
		{"es", "future"},
		{"MNQ", "future"},
		{"CL", "future"},
		{"6E", "future"},
		{"EURUSD", "forex"},
		{"gbpjpy", "forex"},
		{"AAPL", "stock"},
		{"MSFT", "stock"},
		// Six characters but not alphabetic
		{"BRK.B1", "stock"},
	}

	for _, tc := range cases {
		if got := DetectInstrumentType(tc.symbol); got != tc.want {
			t.Errorf("DetectInstrumentType(%q) = %q, want %q", tc.symbol, got, tc.want)
		}
	}
}
