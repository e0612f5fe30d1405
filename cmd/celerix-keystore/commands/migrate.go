package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celerix-dev/celerix-keystore/internal/engine"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
	"github.com/celerix-dev/celerix-keystore/pkg/sdk"
)

func migrateCmd() *cobra.Command {
	var (
		from, to string
		keys     []string
		prompt   string
	)
	cmd := &cobra.Command{
		Use:   "migrate --from <backend> --to <backend>",
		Short: "Copy entries of the current scope between backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == to {
				return fail(fmt.Errorf("--from and --to must differ"))
			}
			if len(keys) == 0 {
				keys = keychain.RegisteredNames()
			}

			src, err := sdk.OpenBackend(cfg, from, terminalAuthenticator(cmd.InOrStdin(), cmd.ErrOrStderr(), assumeYes), nil)
			if err != nil {
				return fail(err)
			}
			defer src.Close()
			dst, err := sdk.OpenBackend(cfg, to, nil, nil)
			if err != nil {
				return fail(err)
			}
			defer dst.Close()

			n, err := engine.Migrate(cmd.Context(), src, dst, cfg.Scope, keys, prompt)
			if err != nil {
				return fail(err)
			}
			fmt.Printf("%s migrated %d of %d entries from %s to %s\n", okFmt("OK"), n, len(keys), from, to)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "source backend")
	f.StringVar(&to, "to", "", "destination backend")
	f.StringSliceVar(&keys, "keys", nil, "keys to copy (default: the well-known keys)")
	f.StringVar(&prompt, "prompt", "Migrate protected keystore entries", "text shown for gated entries")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
