package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewTagCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "tag <id> <tag>...",
		Short: "Tag a file",
		Long:  "Attach tags to a file. Existing tags differing only in casing are reused. With --replace, the given tags replace the file's current tag set.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}

			st, cleanup, err := openStash(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			file := st.File(id)

			if replace {
				if err := file.SetTags(cmd.Context(), args[1:]); err != nil {
					return fmt.Errorf("failed to replace tags of file %d: %w", id, err)
				}
			} else {
				for _, tag := range args[1:] {
					if err := file.AddTag(cmd.Context(), tag); err != nil {
						return fmt.Errorf("failed to tag file %d: %w", id, err)
					}
				}
			}

			tags, err := file.Tags(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("File %d tags: %v\n", id, tags)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&replace, "replace", "r", false, "Replace the current tag set instead of adding")

	return cmd
}

func NewTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List all known tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStash(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			tags, err := st.AllTags(cmd.Context())
			if err != nil {
				return err
			}

			for _, tag := range tags {
				fmt.Println(tag)
			}
			return nil
		},
	}

	return cmd
}
