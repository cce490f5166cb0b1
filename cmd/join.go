package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tether-app/tether/internal/config"
	"github.com/tether-app/tether/internal/roomcode"
	"github.com/tether-app/tether/internal/transport"
	"github.com/tether-app/tether/internal/tunnel"
	"github.com/tether-app/tether/internal/ui"
)

var (
	flagJoinerDomain   string
	flagJoinerSTUN     string
	flagJoinerTURN     string
	flagJoinerTURNUser string
	flagJoinerTURNPass string
)

var joinCmd = &cobra.Command{
	Use:     "join <room-code>",
	Aliases: []string{"j"},
	Short:   "Join a room created on the partner device",
	Long: `Join a pairing room using the code displayed on the partner device.

Examples:
  tether join ABCD-EFGH
  tether join abcdefgh --domain relay.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := roomcode.Normalize(args[0])
		if !roomcode.IsValid(code) {
			return fmt.Errorf("invalid room code: %s", args[0])
		}
		return joinRoom(code)
	},
}

func joinRoom(code string) error {
	cfg, err := LoadConfig(config.Options{
		Domain:     flagJoinerDomain,
		STUNServer: flagJoinerSTUN,
		TURNServer: flagJoinerTURN,
		TURNUser:   flagJoinerTURNUser,
		TURNPass:   flagJoinerTURNPass,
	})
	if err != nil {
		return err
	}

	ctx, err := NewPairingContext(cfg)
	if err != nil {
		return err
	}

	fmt.Println()
	stopSpinner := ui.RunConnectionSpinner("Connecting to relay...")
	defer stopSpinner()
	channel, err := transport.Initialize(cfg, roomcode.SessionID(code, roomcode.RoleJoiner))
	if err != nil {
		return err
	}
	defer channel.Close()
	stopSpinner()

	fmt.Println()
	stopSpinner = ui.RunConnectionSpinner("Connecting to partner...")
	defer stopSpinner()
	conn, err := channel.ConnectToPeer(roomcode.PeerSessionID(code, roomcode.RoleJoiner), transport.ConnectTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	stopSpinner()

	ui.PrintInfo("Partner connected, exchanging keys...")
	payload, err := tunnel.RunJoiner(conn, ctx.UserID)
	if err != nil {
		return err
	}

	return CompletePairing(ctx, payload)
}

func init() {
	rootCmd.AddCommand(joinCmd)

	joinCmd.Flags().StringVarP(&flagJoinerDomain, "domain", "d", "", "Custom relay domain")
	joinCmd.Flags().StringVarP(&flagJoinerSTUN, "stun", "s", "", "Custom STUN server")
	joinCmd.Flags().StringVarP(&flagJoinerTURN, "turn", "t", "", "Custom TURN server")
	joinCmd.Flags().StringVar(&flagJoinerTURNUser, "turn-user", "", "TURN username")
	joinCmd.Flags().StringVar(&flagJoinerTURNPass, "turn-pass", "", "TURN password")
}
