package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tcg/internal/generator"
)

// describer is implemented by generators that can summarise their options.
type describer interface {
	Describe(opts generator.Options) string
}

// newGenerateCmd builds "<generator> generate". Every setting is a string
// flag; only flags given on the command line reach the generator, the rest
// fall back to its defaults.
func newGenerateCmd(name string, keys map[string]string) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate content now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := lookup(name)
			if err != nil {
				return err
			}

			in := generator.Input{}
			for key := range keys {
				if f := cmd.Flags().Lookup(key); f != nil && f.Changed {
					in[key] = f.Value.String()
				}
			}

			ctx := generator.WithInvocation(cmd.Context())
			_, err = wf.Run(ctx, in, generator.Mode{
				Save:     save,
				Console:  generator.Console{Out: cmd.OutOrStdout()},
				Progress: generator.NewProgressBar(os.Stderr),
			})
			return err
		},
	}

	for key, usage := range keys {
		cmd.Flags().String(key, "", usage)
	}
	cmd.Flags().BoolVar(&save, "save", false, "save these options as the new defaults")
	return cmd
}

// newOptionsCmd builds "<generator> options".
func newOptionsCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the options currently in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), wf.ShowOptions())
			if d, ok := wf.Generator().(describer); ok {
				fmt.Fprintln(cmd.OutOrStdout(), d.Describe(wf.Options()))
			}
			return nil
		},
	}
}

func lookup(name string) (*generator.Workflow, error) {
	wf, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("generator %s is not registered", name)
	}
	return wf, nil
}
