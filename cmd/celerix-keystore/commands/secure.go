package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

func saveCmd() *cobra.Command {
	var challenge bool
	cmd := &cobra.Command{
		Use:   "save <key> <value>",
		Short: "Store a value (JSON or plain text) in the secure store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.Keychain("").Save(cmd.Context(), args[0], parseValue(args[1]), challenge); err != nil {
				return fail(err)
			}
			printOK()
			return nil
		},
	}
	cmd.Flags().BoolVar(&challenge, "challenge", false, "require a credential challenge to read the entry")
	return cmd
}

func readCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "read <key>",
		Short: "Print a value from the secure store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var val any
			found, err := root.Keychain("").Read(cmd.Context(), args[0], prompt, &val)
			if err != nil {
				return fail(err)
			}
			if !found {
				return fail(fmt.Errorf("%s: %w", args[0], keychain.ErrNotFound))
			}
			printJSON(val)
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "text shown by the credential challenge")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a value from the secure store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.Keychain("").Delete(cmd.Context(), args[0]); err != nil {
				return fail(err)
			}
			printOK()
			return nil
		},
	}
}

func containsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contains <key>",
		Short: "Report whether a key holds a value, without prompting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(root.Keychain("").Contains(cmd.Context(), args[0]))
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every well-known key; other keys are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root.Keychain("").ClearAll(cmd.Context())
			printOK()
			return nil
		},
	}
}

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the well-known keys and whether each is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kc := root.Keychain("")
			for _, k := range keychain.AllKeys() {
				mark := warnFmt("-")
				if kc.Contains(cmd.Context(), string(k)) {
					mark = okFmt("+")
				}
				fmt.Printf("%s %s\n", mark, keyFmt(k))
			}
			return nil
		},
	}
}

func incrCmd() *cobra.Command {
	var by int64
	cmd := &cobra.Command{
		Use:   "incr <key>",
		Short: "Atomically add to an integer value, creating it when absent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result int64
			err := keychain.Update(cmd.Context(), root.Keychain(""), args[0], func(cur *int64) *int64 {
				result = by
				if cur != nil {
					result += *cur
				}
				return &result
			})
			if err != nil {
				return fail(err)
			}
			fmt.Println(result)
			return nil
		},
	}
	cmd.Flags().Int64Var(&by, "by", 1, "amount to add")
	return cmd
}
