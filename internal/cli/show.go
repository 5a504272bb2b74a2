package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var index uint16

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the fee config at an index",
		Args:  cobra.NoArgs,
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
			res, err := svc.GetAmmConfig(ctx, index)
			if err != nil {
				return err
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(res, func(w io.Writer) { writeResult(w, res) })
		},
	}

	cmd.Flags().Uint16Var(&index, "index", 0, "config index")
	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all fee configs by index",
		Args:  cobra.NoArgs,
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
			rs, err := svc.ListAmmConfigs(ctx)
			if err != nil {
				return err
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(rs, func(w io.Writer) { writeResults(w, rs) })
		},
	}
}
