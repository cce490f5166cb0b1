package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tether-app/tether/internal/store"
	"github.com/tether-app/tether/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pairing state of this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func showStatus() error {
	st, err := OpenStore()
	if err != nil {
		return err
	}

	userID, err := st.Get(store.KeyUserID)
	if err != nil {
		return err
	}
	partnerID, err := st.Get(store.KeyPartnerID)
	if err != nil {
		return err
	}
	pairingStatus, err := st.Get(store.KeyPairingStatus)
	if err != nil {
		return err
	}
	masterKey, err := st.Get(store.KeyMasterKey)
	if err != nil {
		return err
	}

	if userID == "" {
		ui.PrintWarning("No device identity yet. Run \"tether create\" or \"tether join\" first.")
		return nil
	}

	if pairingStatus == "" {
		pairingStatus = "not paired"
	}
	keyState := "absent"
	if masterKey != "" {
		keyState = "present"
	}
	if partnerID == "" {
		partnerID = "-"
	}

	fmt.Println()
	ui.RenderStatus([]ui.StatusRow{
		{Name: "Device ID", Value: userID},
		{Name: "Partner ID", Value: partnerID},
		{Name: "Status", Value: pairingStatus},
		{Name: "Master key", Value: keyState},
	})

	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
