package ui

import (
	"fmt"

	qrcodeTerminal "github.com/Baozisoftware/qrcode-terminal-go"
)

// RenderQRCode prints the room code as a terminal QR code so the
// partner device can scan it instead of typing.
func RenderQRCode(code string) {
	fmt.Printf("%s Or scan to pair:\n", IconQR)
	obj := qrcodeTerminal.New()
	obj.Get(code).Print()
}
