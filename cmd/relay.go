package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tether-app/tether/internal/relay"
	"github.com/tether-app/tether/internal/ui"
)

var flagRelayAddr string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run a signaling relay server",
	Long: `Run the WebSocket relay that pairing devices use to find each other.

The relay only brokers session setup. Key material always travels over
the encrypted tunnel between the devices themselves.

Examples:
  tether relay
  tether relay --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintInfo("Relay listening on " + flagRelayAddr)
		return relay.Serve(flagRelayAddr)
	},
}

func init() {
	rootCmd.AddCommand(relayCmd)

	relayCmd.Flags().StringVarP(&flagRelayAddr, "addr", "a", ":8080", "Listen address")
}
