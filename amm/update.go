package amm

import "fmt"

// Apply sets the field selected by args.Param on c. It does not validate
// rates; callers run ValidateConfigRates on the result before persisting.
func (c *AmmConfig) Apply(args UpdateAmmConfigArgs) error {
	switch args.Param {
	case UpdateTradeFeeRate:
		c.TradeFeeRate = args.Value
	case UpdateProtocolFeeRate:
		c.ProtocolFeeRate = args.Value
	case UpdateFundFeeRate:
		c.FundFeeRate = args.Value
	case UpdateProtocolOwner:
		if args.Identity.IsZero() {
			return fmt.Errorf("%w: %s requires a non-zero identity", ErrInvalidParam, args.Param)
		}
		c.ProtocolOwner = args.Identity
	case UpdateFundOwner:
		if args.Identity.IsZero() {
			return fmt.Errorf("%w: %s requires a non-zero identity", ErrInvalidParam, args.Param)
		}
		c.FundOwner = args.Identity
	case UpdateCreatePoolFee:
		c.CreatePoolFee = args.Value
	case UpdateDisableCreatePool:
		c.DisableCreatePool = args.Value != 0
	case UpdateReferralProject:
		c.ReferralProject = args.Identity
	case UpdateMaxOpenTime:
		c.MaxOpenTime = args.Value
	default:
		return fmt.Errorf("%w: %s", ErrInvalidParam, args.Param)
	}
	return nil
}
