package main

import (
	"github.com/tether-app/tether/cmd"
	"github.com/tether-app/tether/internal/logging"
)

func main() {
	// Initialize logging
	logging.Init()
	cmd.Execute()
}
