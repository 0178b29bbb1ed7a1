package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tcg/internal/generator"
	"tcg/internal/seed"
)

var seedCfg seed.Config

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add placeholder users and published posts to the content store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCfg.Users < 0 || seedCfg.Posts < 0 || seedCfg.Days < 0 {
			return fmt.Errorf("--users, --posts and --days must not be negative")
		}

		console := generator.Console{Out: cmd.OutOrStdout()}
		res, err := seed.Run(cmd.Context(), contentStore, seedCfg)
		if err != nil {
			return generator.Fail(console, "Seeding stopped: "+generator.FormatError(err), err)
		}

		console.Success(fmt.Sprintf("Seeded %s users and %s %s posts.",
			humanize.Comma(int64(len(res.Users))), humanize.Comma(int64(len(res.Posts))), seedCfg.PostType))
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCfg.Users, "users", 5, "number of users to create")
	seedCmd.Flags().IntVar(&seedCfg.Posts, "posts", 10, "number of published posts to create")
	seedCmd.Flags().StringVar(&seedCfg.PostType, "post-type", "post", "post type of the created posts; must be registered in the content store")
	seedCmd.Flags().IntVar(&seedCfg.Days, "days", 365, "spread post dates over this many past days (0-3650)")
	rootCmd.AddCommand(seedCmd)
}
