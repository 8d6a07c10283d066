package netutil

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
)

// Address is a parsed "<ip>/<mask>" pair, bound to its address family's
// mask range (≤32 for IPv4, ≤128 for IPv6).
type Address struct {
	IP  net.IP
	Net *net.IPNet
}

// ParseAddress parses s as "<ip>/<mask>". Any input not of that shape,
// or whose mask exceeds its address family's bit width, fails.
func ParseAddress(s string) (Address, error) {
	ip, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return Address{}, errors.Wrapf(err, "parse address %q", s)
	}
	return Address{IP: ip, Net: ipnet}, nil
}

// String renders the address back in "<ip>/<mask>" form.
func (a Address) String() string {
	ones, _ := a.Net.Mask.Size()
	return a.IP.String() + "/" + strconv.Itoa(ones)
}
