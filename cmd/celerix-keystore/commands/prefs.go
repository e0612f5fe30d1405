package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage plain (non-secret) preferences",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print a preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var val any
				found, err := root.Prefs().Read(cmd.Context(), args[0], &val)
				if err != nil {
					return fail(err)
				}
				if !found {
					return fail(fmt.Errorf("preference %s not found", args[0]))
				}
				printJSON(val)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Store a preference (JSON or plain text)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := root.Prefs().Save(cmd.Context(), args[0], parseValue(args[1])); err != nil {
					return fail(err)
				}
				printOK()
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Remove a preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := root.Prefs().Delete(cmd.Context(), args[0]); err != nil {
					return fail(err)
				}
				printOK()
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List preference keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				keys, err := root.Prefs().Keys(cmd.Context())
				if err != nil {
					return fail(err)
				}
				for _, k := range keys {
					fmt.Println(keyFmt(k))
				}
				return nil
			},
		},
	)
	return cmd
}
