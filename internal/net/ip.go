package net

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
)

// GetOutgoingIP finds the local address other machines on the LAN can reach.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// offline networks
		return localIPv4(), nil
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

// localIPv4 returns the first IPv4 address of an interface that is up and
// not a loopback.
func localIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "127.0.0.1"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	slog.Warn("no suitable local IP found, share link uses loopback")
	return "127.0.0.1"
}

// ShareURL is the address to open in a browser for a server listening on
// addr. Unspecified hosts are replaced with the outgoing IP.
func ShareURL(addr net.Addr) (string, error) {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "", err
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		if host, err = GetOutgoingIP(); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, port)), nil
}

// Port extracts the TCP port of addr.
func Port(addr net.Addr) (int, error) {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(port)
}
