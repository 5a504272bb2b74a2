package amm

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

var (
	// CreateAmmConfigDiscriminator prefixes create_amm_config instruction data.
	CreateAmmConfigDiscriminator = discriminator("global", "create_amm_config")

	// UpdateAmmConfigDiscriminator prefixes update_amm_config instruction data.
	UpdateAmmConfigDiscriminator = discriminator("global", "update_amm_config")
)

const (
	createArgsSize = DiscriminatorSize + 2 + 5*8
	updateArgsSize = DiscriminatorSize + 2 + 1 + 8 + identitySize
)

// CreateAmmConfigArgs are the create_amm_config parameters in wire order.
type CreateAmmConfigArgs struct {
	Index           uint16 `json:"index"`
	TradeFeeRate    uint64 `json:"trade_fee_rate"`
	ProtocolFeeRate uint64 `json:"protocol_fee_rate"`
	FundFeeRate     uint64 `json:"fund_fee_rate"`
	CreatePoolFee   uint64 `json:"create_pool_fee"`
	MaxOpenTime     uint64 `json:"max_open_time"`
}

// Encode serializes the args as instruction data:
// disc(8) | index(2) | trade(8) | protocol(8) | fund(8) | create_pool_fee(8) | max_open_time(8)
func (a CreateAmmConfigArgs) Encode() []byte {
	buf := make([]byte, createArgsSize)
	copy(buf[0:8], CreateAmmConfigDiscriminator[:])
	binary.LittleEndian.PutUint16(buf[8:10], a.Index)
	binary.LittleEndian.PutUint64(buf[10:18], a.TradeFeeRate)
	binary.LittleEndian.PutUint64(buf[18:26], a.ProtocolFeeRate)
	binary.LittleEndian.PutUint64(buf[26:34], a.FundFeeRate)
	binary.LittleEndian.PutUint64(buf[34:42], a.CreatePoolFee)
	binary.LittleEndian.PutUint64(buf[42:50], a.MaxOpenTime)
	return buf
}

// UpdateParam selects the config field an update instruction changes.
type UpdateParam uint8

const (
	UpdateTradeFeeRate UpdateParam = iota
	UpdateProtocolFeeRate
	UpdateFundFeeRate
	UpdateProtocolOwner
	UpdateFundOwner
	UpdateCreatePoolFee
	UpdateDisableCreatePool
	UpdateReferralProject
	UpdateMaxOpenTime
)

func (p UpdateParam) String() string {
	switch p {
	case UpdateTradeFeeRate:
		return "trade_fee_rate"
	case UpdateProtocolFeeRate:
		return "protocol_fee_rate"
	case UpdateFundFeeRate:
		return "fund_fee_rate"
	case UpdateProtocolOwner:
		return "protocol_owner"
	case UpdateFundOwner:
		return "fund_owner"
	case UpdateCreatePoolFee:
		return "create_pool_fee"
	case UpdateDisableCreatePool:
		return "disable_create_pool"
	case UpdateReferralProject:
		return "referral_project"
	case UpdateMaxOpenTime:
		return "max_open_time"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// ParseUpdateParam maps a field name such as "fund_owner" to its param.
func ParseUpdateParam(name string) (UpdateParam, error) {
	for p := UpdateTradeFeeRate; p <= UpdateMaxOpenTime; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown param %q", ErrInvalidParam, name)
}

// UpdateAmmConfigArgs change one field of an existing config.
// Identity is only read by the owner and referral params.
type UpdateAmmConfigArgs struct {
	Index    uint16      `json:"index"`
	Param    UpdateParam `json:"param"`
	Value    uint64      `json:"value"`
	Identity Identity    `json:"identity"`
}

// Encode serializes the args as instruction data:
// disc(8) | index(2) | param(1) | value(8) | identity(32)
func (a UpdateAmmConfigArgs) Encode() []byte {
	buf := make([]byte, updateArgsSize)
	copy(buf[0:8], UpdateAmmConfigDiscriminator[:])
	binary.LittleEndian.PutUint16(buf[8:10], a.Index)
	buf[10] = byte(a.Param)
	binary.LittleEndian.PutUint64(buf[11:19], a.Value)
	copy(buf[19:51], a.Identity[:])
	return buf
}

// Instruction is a decoded admin instruction: exactly one field is set.
type Instruction struct {
	Create *CreateAmmConfigArgs
	Update *UpdateAmmConfigArgs
}

// DecodeInstruction parses instruction data produced by Encode.
func DecodeInstruction(data []byte) (*Instruction, error) {
	if len(data) < DiscriminatorSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidInstruction, len(data))
	}

	switch disc := data[:DiscriminatorSize]; {
	case bytes.Equal(disc, CreateAmmConfigDiscriminator[:]):
		if len(data) != createArgsSize {
			return nil, fmt.Errorf("%w: create_amm_config expects %d bytes, got %d",
				ErrInvalidInstruction, createArgsSize, len(data))
		}
		return &Instruction{Create: &CreateAmmConfigArgs{
			Index:           binary.LittleEndian.Uint16(data[8:10]),
			TradeFeeRate:    binary.LittleEndian.Uint64(data[10:18]),
			ProtocolFeeRate: binary.LittleEndian.Uint64(data[18:26]),
			FundFeeRate:     binary.LittleEndian.Uint64(data[26:34]),
			CreatePoolFee:   binary.LittleEndian.Uint64(data[34:42]),
			MaxOpenTime:     binary.LittleEndian.Uint64(data[42:50]),
		}}, nil

	case bytes.Equal(disc, UpdateAmmConfigDiscriminator[:]):
		if len(data) != updateArgsSize {
			return nil, fmt.Errorf("%w: update_amm_config expects %d bytes, got %d",
				ErrInvalidInstruction, updateArgsSize, len(data))
		}
		args := &UpdateAmmConfigArgs{
			Index: binary.LittleEndian.Uint16(data[8:10]),
			Param: UpdateParam(data[10]),
			Value: binary.LittleEndian.Uint64(data[11:19]),
		}
		copy(args.Identity[:], data[19:51])
		return &Instruction{Update: args}, nil

	default:
		return nil, fmt.Errorf("%w: unknown discriminator %x", ErrInvalidInstruction, disc)
	}
}
