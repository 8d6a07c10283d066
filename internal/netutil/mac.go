// Package netutil provides small MAC-address and CIDR-style address
// parsing utilities. No command in cmd/emuctl uses it. Grounded on original_source/network/{address,interface}.rs's
// lower-case canonical MAC form and ip/mask validation.
package netutil

import (
	"net"

	"github.com/pkg/errors"
)

// MAC is a parsed hardware address that always renders in lower-case
// canonical colon-separated form.
type MAC struct {
	addr net.HardwareAddr
}

// ParseMAC parses s, accepting any case, and returns its canonical
// lower-case form.
func ParseMAC(s string) (MAC, error) {
	addr, err := net.ParseMAC(s)
	if err != nil {
		return MAC{}, errors.Wrapf(err, "parse mac %q", s)
	}
	return MAC{addr: addr}, nil
}

// String renders m in lower-case canonical colon-separated form.
func (m MAC) String() string {
	return m.addr.String()
}
