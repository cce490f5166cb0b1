package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tether-app/tether/internal/ui"
	"github.com/tether-app/tether/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "tether",
	Short:   "Pair two devices with a shared secret over an encrypted tunnel",
	Long:    `Tether pairs two devices using a short human-shareable room code. The devices meet through a public relay, perform an ephemeral key exchange, and transport a master key over an authenticated encrypted tunnel. Once paired, both devices hold the same secret and can decrypt each other's data.`,
	Version: version.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		os.Exit(0)
	}()

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
