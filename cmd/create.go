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
	flagDomain   string
	flagSTUN     string
	flagTURN     string
	flagTURNUser string
	flagTURNPass string
	flagQR       bool
)

var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"c"},
	Short:   "Create a room and wait for a partner device",
	Long: `Create a pairing room and wait for the partner device to join.

A room code is generated and displayed. Enter it on the partner device
with "tether join <code>". Once both devices connect, a master key is
negotiated over an encrypted tunnel and stored on both sides.

Examples:
  tether create
  tether create --domain relay.example.com
  tether create --qr`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createRoom()
	},
}

func createRoom() error {
	cfg, err := LoadConfig(config.Options{
		Domain:     flagDomain,
		STUNServer: flagSTUN,
		TURNServer: flagTURN,
		TURNUser:   flagTURNUser,
		TURNPass:   flagTURNPass,
	})
	if err != nil {
		return err
	}

	ctx, err := NewPairingContext(cfg)
	if err != nil {
		return err
	}

	code, err := roomcode.Generate()
	if err != nil {
		return err
	}

	fmt.Println()
	ui.RenderRoomCode(roomcode.Format(code))
	if flagQR {
		fmt.Println()
		ui.RenderQRCode(roomcode.Normalize(code))
	}

	fmt.Println()
	stopSpinner := ui.RunConnectionSpinner("Connecting to relay...")
	defer stopSpinner()
	channel, err := transport.Initialize(cfg, roomcode.SessionID(code, roomcode.RoleCreator))
	if err != nil {
		return err
	}
	defer channel.Close()
	stopSpinner()

	fmt.Println()
	stopSpinner = ui.RunWaitingSpinner("Waiting for partner to join...")
	defer stopSpinner()
	conn, err := channel.ListenForPeer(transport.ListenTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	stopSpinner()

	ui.PrintInfo("Partner connected, exchanging keys...")
	payload, err := tunnel.RunCreator(conn, ctx.UserID)
	if err != nil {
		return err
	}

	return CompletePairing(ctx, payload)
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&flagDomain, "domain", "d", "", "Custom relay domain")
	createCmd.Flags().StringVarP(&flagSTUN, "stun", "s", "", "Custom STUN server")
	createCmd.Flags().StringVarP(&flagTURN, "turn", "t", "", "Custom TURN server")
	createCmd.Flags().StringVarP(&flagTURNUser, "turn-user", "u", "", "TURN username")
	createCmd.Flags().StringVarP(&flagTURNPass, "turn-pass", "p", "", "TURN password")
	createCmd.Flags().BoolVarP(&flagQR, "qr", "q", false, "Show a scannable QR code")
}
