package amm

import (
	"fmt"
)

// RatePair names the invariant a RateError violated.
type RatePair uint8

const (
	// RatePairTradeProtocol is trade_fee_rate + protocol_fee_rate <= denominator.
	RatePairTradeProtocol RatePair = iota + 1
	// RatePairProtocolFund is protocol_fee_rate + fund_fee_rate <= denominator.
	RatePairProtocolFund
	// RateIndividual is rate < denominator for a single rate.
	RateIndividual
)

func (p RatePair) String() string {
	switch p {
	case RatePairTradeProtocol:
		return "trade_protocol"
	case RatePairProtocolFund:
		return "protocol_fund"
	case RateIndividual:
		return "individual"
	default:
		return "unknown"
	}
}

// RateError reports which fee rate invariant a config violates.
type RateError struct {
	Pair  RatePair
	Field string // offending field, set for RateIndividual
	Value uint64 // sum or rate that exceeded the limit
}

func (e *RateError) Error() string {
	switch e.Pair {
	case RatePairTradeProtocol:
		return fmt.Sprintf("%v: trade_fee_rate + protocol_fee_rate = %d exceeds %d",
			ErrInvalidRate, e.Value, FeeRateDenominator)
	case RatePairProtocolFund:
		return fmt.Sprintf("%v: protocol_fee_rate + fund_fee_rate = %d exceeds %d",
			ErrInvalidRate, e.Value, FeeRateDenominator)
	default:
		return fmt.Sprintf("%v: %s = %d must be below %d",
			ErrInvalidRate, e.Field, e.Value, FeeRateDenominator)
	}
}

// Is makes errors.Is(err, ErrInvalidRate) match any RateError.
func (e *RateError) Is(target error) bool { return target == ErrInvalidRate }

// ValidateConfigRates checks the fee rate invariants of c and returns a
// *RateError for the first one violated, or nil if all hold.
// It has no side effects and is used by every path that writes a config.
func ValidateConfigRates(c *AmmConfig) error {
	if c == nil {
		return fmt.Errorf("%w: config", ErrNilParam)
	}

	if sum, ok := add(c.TradeFeeRate, c.ProtocolFeeRate); !ok || sum > FeeRateDenominator {
		return &RateError{Pair: RatePairTradeProtocol, Value: sum}
	}
	if sum, ok := add(c.ProtocolFeeRate, c.FundFeeRate); !ok || sum > FeeRateDenominator {
		return &RateError{Pair: RatePairProtocolFund, Value: sum}
	}

	for _, r := range []struct {
		field string
		value uint64
	}{
		{"trade_fee_rate", c.TradeFeeRate},
		{"protocol_fee_rate", c.ProtocolFeeRate},
		{"fund_fee_rate", c.FundFeeRate},
	} {
		if r.value >= FeeRateDenominator {
			return &RateError{Pair: RateIndividual, Field: r.field, Value: r.value}
		}
	}
	return nil
}

// add returns a+b and false on uint64 overflow; the saturated sum is returned
// so error messages stay meaningful.
func add(a, b uint64) (uint64, bool) {
	s := a + b
	if s < a {
		return ^uint64(0), false
	}
	return s, true
}
