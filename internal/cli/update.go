package cli

import (
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/libgamma-go/amm"
	"github.com/bitfsorg/libgamma-go/auth"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		index    uint16
		param    string
		value    uint64
		identity string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change one field of a fee config",
		Long: `Change one field of the config at --index. --param is the field name
(trade_fee_rate, protocol_fee_rate, fund_fee_rate, protocol_owner, fund_owner,
create_pool_fee, disable_create_pool, referral_project, max_open_time).
Owner and referral params read --identity; the rest read --value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := amm.ParseUpdateParam(param)
			if err != nil {
				return err
			}
			args := amm.UpdateAmmConfigArgs{Index: index, Param: p, Value: value}
			if identity != "" {
				if args.Identity, err = solana.PublicKeyFromBase58(identity); err != nil {
					return err
				}
			}

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
	fl.Uint16Var(&index, "index", 0, "config index")
	fl.StringVar(&param, "param", "", "field to change")
	fl.Uint64Var(&value, "value", 0, "new numeric value")
	fl.StringVar(&identity, "identity", "", "new identity (base58)")
	_ = cmd.MarkFlagRequired("param")
	return cmd
}
