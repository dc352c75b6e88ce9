package auth

import (
	"fmt"
	"net/netip"
	"strings"
)

// CanonicalizeIP normalizes an address or CIDR prefix so that equal
// networks compare equal as strings. IPv4-mapped IPv6 addresses are unmapped
// and prefixes are masked, e.g. "::ffff:10.0.0.7" -> "10.0.0.7" and
// "10.0.0.7/24" -> "10.0.0.0/24".
func CanonicalizeIP(ip string) (string, error) {
	ip = strings.TrimSpace(ip)
	if strings.Contains(ip, "/") {
		prefix, err := netip.ParsePrefix(ip)
		if err != nil {
			return "", fmt.Errorf("invalid IP prefix: %s", ip)
		}
		addr := prefix.Addr()
		bits := prefix.Bits()
		if addr.Is4In6() {
			addr = addr.Unmap()
			bits -= 96
			if bits < 0 {
				return "", fmt.Errorf("invalid IP prefix: %s", ip)
			}
		}
		return netip.PrefixFrom(addr, bits).Masked().String(), nil
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return addr.Unmap().String(), nil
}

// CanonicalizeIPs converts a slice of IP addresses to their canonical forms.
// Returns an error if any IP is invalid.
func CanonicalizeIPs(ips []string) ([]string, error) {
	result := make([]string, 0, len(ips))
	for _, ip := range ips {
		canonical, err := CanonicalizeIP(ip)
		if err != nil {
			return nil, err
		}
		result = append(result, canonical)
	}
	return result, nil
}

// IsIPAllowed checks if the client IP matches one of the allowed addresses
// or prefixes. If the allowed list is empty, all IPs are allowed.
func IsIPAllowed(clientIP string, allowedIPs []string) bool {
	if len(allowedIPs) == 0 {
		return true
	}

	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, allowed := range allowedIPs {
		if strings.Contains(allowed, "/") {
			prefix, err := netip.ParsePrefix(allowed)
			if err == nil && prefix.Contains(addr) {
				return true
			}
			continue
		}
		if a, err := netip.ParseAddr(allowed); err == nil && a.Unmap() == addr {
			return true
		}
	}
	return false
}
