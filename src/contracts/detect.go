package contracts

import "strings"

// -----------------------------------------------------------------------------
// Instrument Type Detection
// Clients often tag everything as "stock"; known futures roots and
// six-letter currency pairs are corrected before subscribing.
// -----------------------------------------------------------------------------

var futuresSymbols = map[string]struct{}{
	// Equity index
	"ES": {}, "NQ": {}, "YM": {}, "RTY": {},
	"MES": {}, "MNQ": {}, "MYM": {}, "M2K": {},
	// Energy
	"CL": {}, "NG": {}, "RB": {}, "HO": {}, "BZ": {},
	// Metals
	"GC": {}, "SI": {}, "HG": {}, "PL": {}, "PA": {}, "ZG": {}, "ZI": {},
	// Grains and softs
	"ZC": {}, "ZS": {}, "ZW": {}, "ZL": {}, "ZM": {},
	"KC": {}, "SB": {}, "CC": {}, "CT": {},
	// Rates
	"ZB": {}, "ZN": {}, "ZF": {}, "ZT": {},
	// Currencies (futures)
	"6E": {}, "6B": {}, "6J": {}, "6A": {}, "6C": {}, "6S": {},
	// Livestock
	"LE": {}, "GF": {}, "HE": {},
}

// -----------------------------------------------------------------------------

// DetectInstrumentType guesses the instrument type from the bare symbol.
// Known futures roots map to "future", six-letter alphabetic symbols to
// "forex", everything else stays "stock".
func DetectInstrumentType(symbol string) string {
	upper := strings.ToUpper(symbol)

	if _, ok := futuresSymbols[upper]; ok {
		return "future"
	}
	if len(upper) == 6 && isAlpha(upper) {
		return "forex"
	}
	return "stock"
}
