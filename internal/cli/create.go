package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libgamma-go/amm"
	"github.com/bitfsorg/libgamma-go/auth"
)

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var args amm.CreateAmmConfigArgs

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a fee config",
		Long: `Create the fee config at --index. Rates are parts per million: the trade
fee rate applies to swap volume, the protocol and fund rates to the trade fee.
Nothing is stored if any rate constraint fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			svc, err := s.service(ctx)
			if err != nil {
				return err
			}
			key, err := s.signingKey()
			if err != nil {
				return err
			}
			req, err := auth.Sign(key, s.programID, args.Encode())
			if err != nil {
				return err
			}
			res, err := svc.Execute(ctx, req)
			if err != nil {
				return err
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(res, func(w io.Writer) { writeResult(w, res) })
		},
	}

	fl := cmd.Flags()
	fl.Uint16Var(&args.Index, "index", 0, "config index")
	fl.Uint64Var(&args.TradeFeeRate, "trade-fee-rate", 0, "trade fee rate (ppm of volume)")
	fl.Uint64Var(&args.ProtocolFeeRate, "protocol-fee-rate", 0, "protocol fee rate (ppm of trade fee)")
	fl.Uint64Var(&args.FundFeeRate, "fund-fee-rate", 0, "fund fee rate (ppm of trade fee)")
	fl.Uint64Var(&args.CreatePoolFee, "create-pool-fee", 0, "pool creation fee (base units)")
	fl.Uint64Var(&args.MaxOpenTime, "max-open-time", 0, "maximum pool open delay (seconds)")
	return cmd
}
