// Package netx finds the address other devices on the LAN can reach us at.
package netx

import (
	"errors"
	"net"
)

var ErrNoAddress = errors.New("no non-loopback IPv4 address found")

// LocalIPv4 returns the first non-loopback IPv4 address of an interface that
// is up.
func LocalIPv4() (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var addrs []net.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		a, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, a...)
	}
	return firstIPv4(addrs)
}

func firstIPv4(addrs []net.Addr) (net.IP, error) {
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
	}
	return nil, ErrNoAddress
}

// HostOr returns LocalIPv4 as a string, or fallback when there is none.
func HostOr(fallback string) string {
	ip, err := LocalIPv4()
	if err != nil {
		return fallback
	}
	return ip.String()
}
