// Package amm defines the protocol fee configuration record shared by every
// pool of the exchange, its rate invariants and its on-chain byte layout.
//
// Rates are parts-per-million of the traded amount:
//
//	fee = amount * rate / FeeRateDenominator
//
// The protocol fee is carved out of the trade fee, and the fund fee is carved
// out of the protocol fee, so neither pair may exceed the denominator.
package amm

import (
	"github.com/gagliardetto/solana-go"
)

const (
	// FeeRateDenominator is the fixed denominator of every fee rate (1e6 = 100%).
	FeeRateDenominator uint64 = 1_000_000

	// AmmConfigSeed is the namespace tag for config addresses.
	AmmConfigSeed = "amm_config"
)

// Identity is an account public key used for ownership and authentication.
type Identity = solana.PublicKey

// AmmConfig is the protocol-wide fee configuration addressed by Index.
//
// Field order matches the stored layout (see MarshalBinary).
type AmmConfig struct {
	Bump              uint8    `json:"bump"`
	DisableCreatePool bool     `json:"disable_create_pool"`
	Index             uint16   `json:"index"`
	TradeFeeRate      uint64   `json:"trade_fee_rate"`
	ProtocolFeeRate   uint64   `json:"protocol_fee_rate"`
	FundFeeRate       uint64   `json:"fund_fee_rate"`
	CreatePoolFee     uint64   `json:"create_pool_fee"`
	ProtocolOwner     Identity `json:"protocol_owner"`
	FundOwner         Identity `json:"fund_owner"`
	ReferralProject   Identity `json:"referral_project"`
	MaxOpenTime       uint64   `json:"max_open_time"`
}

// Clone returns a copy of c. Identities are arrays, so the copy is deep.
func (c *AmmConfig) Clone() *AmmConfig {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// TradeFee returns amount * TradeFeeRate / FeeRateDenominator, rounded up.
// The second result is false if the product overflows.
func (c *AmmConfig) TradeFee(amount uint64) (uint64, bool) {
	return ceilDiv(amount, c.TradeFeeRate, FeeRateDenominator)
}

// ProtocolFee returns the share of tradeFee owed to the protocol, rounded down.
func (c *AmmConfig) ProtocolFee(tradeFee uint64) (uint64, bool) {
	return floorDiv(tradeFee, c.ProtocolFeeRate, FeeRateDenominator)
}

// FundFee returns the share of tradeFee owed to the fund owner, rounded down.
func (c *AmmConfig) FundFee(tradeFee uint64) (uint64, bool) {
	return floorDiv(tradeFee, c.FundFeeRate, FeeRateDenominator)
}

func floorDiv(amount, rate, denom uint64) (uint64, bool) {
	p, ok := mul(amount, rate)
	if !ok {
		return 0, false
	}
	return p / denom, true
}

func ceilDiv(amount, rate, denom uint64) (uint64, bool) {
	p, ok := mul(amount, rate)
	if !ok {
		return 0, false
	}
	q := p / denom
	if p%denom != 0 {
		q++
	}
	return q, true
}

func mul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}
