package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libgamma-go/keystore"
)

// KeygenResult is the keygen output payload.
type KeygenResult struct {
	PublicKey string `json:"public_key"`
	Path      string `json:"path"`
}

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an encrypted administrator key",
		Long: `Generate a new ed25519 administrator key and store it encrypted with the
password in GAMMA_KEY_PASSWORD. Set adminkey in the config to the printed
public key to grant it admin rights. An existing key file is never replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			path := out
			if path == "" {
				path = s.cfg.KeyPath()
			}
			password, err := passwordFromEnv()
			if err != nil {
				return err
			}

			key, err := keystore.Generate()
			if err != nil {
				return err
			}
			if err := keystore.Save(path, key, password); err != nil {
				return err
			}

			res := KeygenResult{PublicKey: key.PublicKey().String(), Path: path}
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "public key: %s\nsaved to:   %s\n", res.PublicKey, res.Path)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "key file (default <datadir>/<keyfile>)")
	return cmd
}
