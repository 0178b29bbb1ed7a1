package commands

import (
	"github.com/spf13/cobra"

	"tcg/internal/generator/comments"
)

var commentsCmd = &cobra.Command{
	Use:   comments.Command,
	Short: "Generate comments from existing users on existing posts",
}

func init() {
	commentsCmd.AddCommand(newGenerateCmd(comments.Ident, map[string]string{
		comments.KeyAmount:       "number of comments to create (1-100)",
		comments.KeyPostTypeKeys: "comma-separated post types to comment on",
		comments.KeyDaysFrom:     "spread comment dates over this many past days (0-3650)",
	}))
	commentsCmd.AddCommand(newOptionsCmd(comments.Ident))
	rootCmd.AddCommand(commentsCmd)
}
