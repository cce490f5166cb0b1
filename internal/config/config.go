package config

import (
	"fmt"
	"os"
)

// Default configuration values (production)
const (
	DefaultDomain   = "relay.tetherapp.io"
	DefaultSTUN     = "stun:stun.l.google.com:19302"
	DefaultTURN     = "" // optional, disabled by default
	DefaultTURNUser = ""
	DefaultTURNPass = ""
)

// Config holds application configuration.
type Config struct {
	// Domain is the relay server domain.
	Domain string

	// WebSocketURL is constructed from Domain.
	WebSocketURL string

	// ICE servers for the peer-to-peer channel.
	STUNServer string
	TURNServer string
	TURNUser   string
	TURNPass   string
}

// Options carries CLI flag overrides into Load.
type Options struct {
	Domain     string
	STUNServer string
	TURNServer string
	TURNUser   string
	TURNPass   string
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. Hardcoded defaults - lowest priority
func Load(opts Options) (*Config, error) {
	domain := firstNonEmpty(opts.Domain, os.Getenv("DOMAIN"), DefaultDomain)
	stunServer := firstNonEmpty(opts.STUNServer, os.Getenv("STUN_SERVER"), DefaultSTUN)
	turnServer := firstNonEmpty(opts.TURNServer, os.Getenv("TURN_SERVER"), DefaultTURN)
	turnUser := firstNonEmpty(opts.TURNUser, os.Getenv("TURN_USERNAME"), DefaultTURNUser)
	turnPass := firstNonEmpty(opts.TURNPass, os.Getenv("TURN_PASSWORD"), DefaultTURNPass)

	return &Config{
		Domain:       domain,
		WebSocketURL: fmt.Sprintf("wss://%s/ws", domain),
		STUNServer:   stunServer,
		TURNServer:   turnServer,
		TURNUser:     turnUser,
		TURNPass:     turnPass,
	}, nil
}

// GetSTUNServers returns STUN server URLs as strings.
func (c *Config) GetSTUNServers() []string {
	return []string{c.STUNServer}
}

// GetTURNServers returns TURN server URLs if configured.
func (c *Config) GetTURNServers() []string {
	if c.TURNServer == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("%s:3478?transport=udp", c.TURNServer),
		fmt.Sprintf("%s:3478?transport=tcp", c.TURNServer),
		fmt.Sprintf("turns:%s:5349?transport=tcp", c.TURNServer),
	}
}

// GetTURNCredentials returns the TURN username and password.
func (c *Config) GetTURNCredentials() (string, string) {
	return c.TURNUser, c.TURNPass
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
