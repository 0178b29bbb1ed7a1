package commands

import (
	"fmt"
	"net"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tcg/internal/web"
)

var (
	serveAddr string
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generator settings UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		url := "http://" + ln.Addr().String() + "/"
		fmt.Fprintf(cmd.OutOrStdout(), "Settings UI available at %s\n", url)

		if serveOpen || cfg.OpenBrowser {
			if err := browser.OpenURL(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
			}
		}

		return web.NewServer(registry).Serve(cmd.Context(), ln)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "address to listen on (overrides TCG_HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the settings UI in a browser")
	rootCmd.AddCommand(serveCmd)
}
