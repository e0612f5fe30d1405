package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage the family member table",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <email>",
			Short: "Add a family member",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := root.Members().AddMember(cmd.Context(), args[0], args[1])
				if err != nil {
					return fail(err)
				}
				fmt.Printf("%s %s\n", okFmt("added"), m.Identification)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List family members",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := root.Members().FetchFamilyMembers(cmd.Context())
				if err != nil {
					return fail(err)
				}
				printJSON(list)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <identification>",
			Short: "Remove a family member by identification UUID",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fail(fmt.Errorf("invalid identification %q: %w", args[0], err))
				}
				if err := root.Members().DeleteMember(cmd.Context(), id); err != nil {
					return fail(err)
				}
				printOK()
				return nil
			},
		},
	)
	return cmd
}
