package amm

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const (
	// DiscriminatorSize is the length of an account or instruction discriminator.
	DiscriminatorSize = 8

	// AmmConfigSize is the serialized size of an AmmConfig including its discriminator.
	//
	// Layout: disc(8) | bump(1) | disable_create_pool(1) | index(2) |
	// trade_fee_rate(8) | protocol_fee_rate(8) | fund_fee_rate(8) |
	// create_pool_fee(8) | protocol_owner(32) | fund_owner(32) |
	// referral_project(32) | max_open_time(8)
	AmmConfigSize = DiscriminatorSize + 1 + 1 + 2 + 4*8 + 3*identitySize + 8

	identitySize = 32
)

// AmmConfigDiscriminator prefixes every serialized AmmConfig.
var AmmConfigDiscriminator = discriminator("account", "AmmConfig")

// discriminator returns SHA256(namespace:name)[:8].
func discriminator(namespace, name string) [DiscriminatorSize]byte {
	var d [DiscriminatorSize]byte
	copy(d[:], bsvhash.Sha256([]byte(namespace+":"+name)))
	return d
}

// MarshalBinary encodes c in the stored account layout, little-endian.
func (c *AmmConfig) MarshalBinary() ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: config", ErrNilParam)
	}

	buf := make([]byte, AmmConfigSize)
	copy(buf[0:8], AmmConfigDiscriminator[:])
	buf[8] = c.Bump
	if c.DisableCreatePool {
		buf[9] = 1
	}
	binary.LittleEndian.PutUint16(buf[10:12], c.Index)
	binary.LittleEndian.PutUint64(buf[12:20], c.TradeFeeRate)
	binary.LittleEndian.PutUint64(buf[20:28], c.ProtocolFeeRate)
	binary.LittleEndian.PutUint64(buf[28:36], c.FundFeeRate)
	binary.LittleEndian.PutUint64(buf[36:44], c.CreatePoolFee)
	copy(buf[44:76], c.ProtocolOwner[:])
	copy(buf[76:108], c.FundOwner[:])
	copy(buf[108:140], c.ReferralProject[:])
	binary.LittleEndian.PutUint64(buf[140:148], c.MaxOpenTime)

	return buf, nil
}

// UnmarshalBinary decodes the stored account layout into c.
func (c *AmmConfig) UnmarshalBinary(data []byte) error {
	if len(data) != AmmConfigSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccountData, AmmConfigSize, len(data))
	}
	if !bytes.Equal(data[0:8], AmmConfigDiscriminator[:]) {
		return fmt.Errorf("%w: discriminator mismatch", ErrInvalidAccountData)
	}
	if data[9] > 1 {
		return fmt.Errorf("%w: disable_create_pool must be 0 or 1, got %d", ErrInvalidAccountData, data[9])
	}

	c.Bump = data[8]
	c.DisableCreatePool = data[9] == 1
	c.Index = binary.LittleEndian.Uint16(data[10:12])
	c.TradeFeeRate = binary.LittleEndian.Uint64(data[12:20])
	c.ProtocolFeeRate = binary.LittleEndian.Uint64(data[20:28])
	c.FundFeeRate = binary.LittleEndian.Uint64(data[28:36])
	c.CreatePoolFee = binary.LittleEndian.Uint64(data[36:44])
	copy(c.ProtocolOwner[:], data[44:76])
	copy(c.FundOwner[:], data[76:108])
	copy(c.ReferralProject[:], data[108:140])
	c.MaxOpenTime = binary.LittleEndian.Uint64(data[140:148])

	return nil
}

// DecodeAmmConfig is a convenience wrapper around UnmarshalBinary.
func DecodeAmmConfig(data []byte) (*AmmConfig, error) {
	var c AmmConfig
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &c, nil
}
