package contracts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lakowske/marketbridge/src/models"
)

// -----------------------------------------------------------------------------
// Contract Factory
// Pure constructors mapping (symbol, instrument type, params) to a broker
// contract descriptor. Same inputs always yield an equivalent descriptor,
// which keeps resubscription idempotent.
// -----------------------------------------------------------------------------

var (
	ErrMissingSymbol         = errors.New("symbol is required")
	ErrUnsupportedInstrument = errors.New("unsupported instrument type")
)

// -----------------------------------------------------------------------------

// CreateStock builds a stock contract. Defaults: SMART/USD.
func CreateStock(symbol, exchange, currency string) *models.MContract {
	return &models.MContract{
		Symbol:   symbol,
		SecType:  "STK",
		Exchange: orDefault(exchange, "SMART"),
		Currency: orDefault(currency, "USD"),
	}
}

// -----------------------------------------------------------------------------

// CreateFuture builds a futures contract with an explicit expiry
// (YYYYMM or YYYYMMDD). Defaults: CME/USD.
func CreateFuture(symbol, expiry, exchange, currency string) *models.MContract {
	c := CreateGenericFuture(symbol, exchange, currency)
	c.LastTradeDateOrContractMonth = expiry
	return c
}

// -----------------------------------------------------------------------------

// CreateGenericFuture builds an expiry-less futures contract, used for the
// contract-details request that drives front-month resolution.
func CreateGenericFuture(symbol, exchange, currency string) *models.MContract {
	return &models.MContract{
		Symbol:   symbol,
		SecType:  "FUT",
		Exchange: orDefault(exchange, "CME"),
		Currency: orDefault(currency, "USD"),
	}
}

// -----------------------------------------------------------------------------

// CreateOption builds an option contract. Right defaults to call.
func CreateOption(symbol, expiry string, strike float64, right, exchange, currency string) *models.MContract {
	return &models.MContract{
		Symbol:                       symbol,
		SecType:                      "OPT",
		Exchange:                     orDefault(exchange, "SMART"),
		Currency:                     orDefault(currency, "USD"),
		LastTradeDateOrContractMonth: expiry,
		Strike:                       strike,
		Right:                        orDefault(right, "C"),
	}
}

// -----------------------------------------------------------------------------

// CreateForex builds a currency-pair contract on IDEALPRO. A six-letter
// pair like EURUSD is split into base symbol and quote currency; otherwise
// the explicit currency (default USD) is used.
func CreateForex(pair, currency string) *models.MContract {
	symbol := pair
	quote := orDefault(currency, "USD")
	if len(pair) == 6 && isAlpha(pair) {
		symbol = pair[:3]
		quote = pair[3:]
	}
	return &models.MContract{
		Symbol:   symbol,
		SecType:  "CASH",
		Exchange: "IDEALPRO",
		Currency: quote,
	}
}

// -----------------------------------------------------------------------------

// CreateIndex builds an index contract. Defaults: CBOE/USD.
func CreateIndex(symbol, exchange, currency string) *models.MContract {
	return &models.MContract{
		Symbol:   symbol,
		SecType:  "IND",
		Exchange: orDefault(exchange, "CBOE"),
		Currency: orDefault(currency, "USD"),
	}
}

// -----------------------------------------------------------------------------

// CreateCrypto builds a crypto contract. Defaults: PAXOS/USD.
func CreateCrypto(symbol, exchange, currency string) *models.MContract {
	return &models.MContract{
		Symbol:   symbol,
		SecType:  "CRYPTO",
		Exchange: orDefault(exchange, "PAXOS"),
		Currency: orDefault(currency, "USD"),
	}
}

// -----------------------------------------------------------------------------

// Create dispatches on instrument type using the fields of a subscribe
// command. Unknown types fail with ErrUnsupportedInstrument.
func Create(instrumentType string, cmd *models.MCommand) (*models.MContract, error) {
	if cmd.Symbol == "" {
		return nil, ErrMissingSymbol
	}

	switch strings.ToLower(instrumentType) {
	case "stock", "":
		return CreateStock(cmd.Symbol, cmd.Exchange, cmd.Currency), nil
	case "future":
		if cmd.Expiry == "" {
			return CreateGenericFuture(cmd.Symbol, cmd.Exchange, cmd.Currency), nil
		}
		return CreateFuture(cmd.Symbol, cmd.Expiry, cmd.Exchange, cmd.Currency), nil
	case "option":
		return CreateOption(cmd.Symbol, cmd.Expiry, cmd.Strike, cmd.Right, cmd.Exchange, cmd.Currency), nil
	case "forex":
		return CreateForex(cmd.Symbol, cmd.Currency), nil
	case "index":
		return CreateIndex(cmd.Symbol, cmd.Exchange, cmd.Currency), nil
	case "crypto":
		return CreateCrypto(cmd.Symbol, cmd.Exchange, cmd.Currency), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInstrument, instrumentType)
	}
}

// -----------------------------------------------------------------------------

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// -----------------------------------------------------------------------------

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return len(s) > 0
}
