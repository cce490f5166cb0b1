// Package dns resolves the relay's hostname, falling back to public DNS
// providers when the system resolver fails. Captive or broken local
// resolvers are a common reason a pairing attempt cannot even reach the
// relay.
package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// publicDNS are servers queried when the local lookup fails.
var publicDNS = []string{
	"1.1.1.1",         // Cloudflare
	"1.0.0.1",         // Cloudflare
	"8.8.8.8",         // Google
	"8.8.4.4",         // Google
	"9.9.9.9",         // Quad9
	"149.112.112.112", // Quad9
}

// Lookup resolves a hostname to an IP address, trying the system resolver
// first and racing the public providers on failure.
func Lookup(address string) (string, error) {
	if ip, err := localLookupIP(address); err == nil && ip != "" {
		return ip, nil
	}
	return raceLookup(address)
}

func localLookupIP(address string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	r := &net.Resolver{}
	ips, err := r.LookupHost(ctx, address)
	if err != nil {
		return "", err
	}
	return pickIP(ips)
}

// raceLookup queries every public provider concurrently and returns the
// first success.
func raceLookup(address string) (string, error) {
	type result struct {
		ip  string
		err error
	}
	results := make(chan result, len(publicDNS))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, server := range publicDNS {
		go func(server string) {
			ip, err := remoteLookupIP(ctx, address, server)
			results <- result{ip: ip, err: err}
		}(server)
	}

	for range publicDNS {
		select {
		case res := <-results:
			if res.err == nil && res.ip != "" {
				return res.ip, nil
			}
		case <-ctx.Done():
			return "", errors.New("public DNS race timed out")
		}
	}
	return "", fmt.Errorf("failed to resolve %s: all public DNS servers failed", address)
}

func remoteLookupIP(ctx context.Context, address, dnsServer string) (string, error) {
	r := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			d := new(net.Dialer)
			return d.DialContext(ctx, network, net.JoinHostPort(dnsServer, "53"))
		},
	}
	ips, err := r.LookupHost(ctx, address)
	if err != nil {
		return "", err
	}
	return pickIP(ips)
}

// pickIP prefers IPv4 answers.
func pickIP(ips []string) (string, error) {
	if len(ips) == 0 {
		return "", errors.New("no IP addresses found")
	}
	for _, ip := range ips {
		if net.ParseIP(ip).To4() != nil {
			return ip, nil
		}
	}
	return ips[0], nil
}
