package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libgamma-go/pda"
)

// DeriveResult is the derive output payload.
type DeriveResult struct {
	Index   uint16 `json:"index"`
	Address string `json:"address"`
	Bump    uint8  `json:"bump"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	var index uint16

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the config address for an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			addr, bump, err := pda.DeriveAmmConfigAddress(s.programID, index)
			if err != nil {
				return err
			}

			res := DeriveResult{Index: index, Address: addr.String(), Bump: bump}
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "%s (bump %d)\n", res.Address, res.Bump)
			})
		},
	}

	cmd.Flags().Uint16Var(&index, "index", 0, "config index")
	return cmd
}
