package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwantia/gostash/pkg/db/store"
	"github.com/spf13/cobra"
)

func NewAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Import files into the stash",
		Long:  "Import one or more files. Embedded GPS metadata is reverse-geocoded into place-name tags in the background; the command waits for enrichment to finish.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStash(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			for _, path := range args {
				file, err := st.AddFile(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}
				fmt.Printf("Imported %s as file %d\n", path, file.ID())
			}

			// Enrichment runs detached; a one-shot process waits for it
			st.Wait()
			return nil
		},
	}

	return cmd
}

func NewListCommand() *cobra.Command {
	var tags []string
	var any bool
	var search string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List files in the stash",
		Long:  "List files matching a name substring and a tag combination. All given tags must match unless --any is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStash(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			operator := store.And
			if any {
				operator = store.Or
			}

			files, err := st.Files(cmd.Context(), store.FileRequest{
				Tags:     tags,
				Operator: operator,
				Search:   search,
			})
			if err != nil {
				return err
			}

			for _, file := range files {
				name, err := file.Name(cmd.Context())
				if err != nil {
					return err
				}
				fileTags, err := file.Tags(cmd.Context())
				if err != nil {
					return err
				}

				line := fmt.Sprintf("%6d  %s", file.ID(), name)
				if len(fileTags) > 0 {
					line = fmt.Sprintf("%s  [%s]", line, strings.Join(fileTags, ", "))
				}
				fmt.Println(line)
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Filter by tag (repeatable)")
	cmd.Flags().BoolVar(&any, "any", false, "Match files carrying any of the given tags instead of all")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name substring")

	return cmd
}

func NewRenameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a file",
		Long:  "Change the display name of a file. The extension recorded at import time is kept.",
		Args:  cobra.ExactArgs(2),
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

			if err := st.File(id).SetName(cmd.Context(), args[1]); err != nil {
				return fmt.Errorf("failed to rename file %d: %w", id, err)
			}

			fmt.Printf("Renamed file %d to %s\n", id, args[1])
			return nil
		},
	}

	return cmd
}

func parseFileID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid file id %q: %w", raw, err)
	}
	return uint(id), nil
}
