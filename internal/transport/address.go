// File: internal/transport/address.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Address string parsers for the TCP and Unix domain backends, plus the
// scheme-prefixed endpoint form used by callers.

package transport

import (
	"strconv"
	"strings"

	"github.com/momentics/gsock/api"
)

// AbstractMarker prefixes Unix domain names that live in the Linux
// abstract namespace instead of on the filesystem.
const AbstractMarker = '@'

// maxUnixAddressLen is the longest address string accepted for AF_UNIX:
// sun_path is 108 bytes and needs room for the terminating (or, in the
// abstract case, leading) NUL.
const maxUnixAddressLen = 107

// IPv4Address is a parsed "<a>.<b>.<c>.<d>:<port>" string.
type IPv4Address struct {
	Octets [4]byte
	Port   uint16
}

// String renders the address in the form ParseIPv4Address accepts.
func (a IPv4Address) String() string {
	var b strings.Builder
	b.Grow(21)
	for i, o := range a.Octets {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(uint64(o), 10))
	}
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(a.Port), 10))
	return b.String()
}

// ParseIPv4Address decodes "<a>.<b>.<c>.<d>:<port>". Each octet must be a
// decimal number in 0-255 and the port a decimal number in 0-65535.
// Nothing may follow the port.
func ParseIPv4Address(address string) (IPv4Address, error) {
	var out IPv4Address

	host, port, ok := strings.Cut(address, ":")
	if !ok {
		return out, parseError(address, "missing port")
	}

	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return out, parseError(address, "expected four octets")
	}
	for i, p := range parts {
		v, err := parseDecimal(p, 8)
		if err != nil {
			return out, parseError(address, "octet out of range").WithContext("octet", p)
		}
		out.Octets[i] = byte(v)
	}

	v, err := parseDecimal(port, 16)
	if err != nil {
		return out, parseError(address, "invalid port").WithContext("port", port)
	}
	out.Port = uint16(v)
	return out, nil
}

// parseDecimal accepts only ASCII digits, which rules out signs, spaces and
// any trailing characters strconv would otherwise report less precisely.
func parseDecimal(s string, bits int) (uint64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseUint(s, 10, bits)
}

// UnixAddress is a parsed Unix domain address: a filesystem path, or an
// abstract-namespace name when Abstract is set.
type UnixAddress struct {
	Name     string
	Abstract bool
}

// ParseUnixAddress decodes a Unix domain address. A leading '@' selects the
// abstract namespace.
func ParseUnixAddress(address string) (UnixAddress, error) {
	if address == "" {
		return UnixAddress{}, parseError(address, "empty path")
	}
	if len(address) > maxUnixAddressLen {
		return UnixAddress{}, parseError(address, "path too long").WithContext("max", maxUnixAddressLen)
	}
	if address[0] == AbstractMarker {
		if len(address) == 1 {
			return UnixAddress{}, parseError(address, "empty abstract name")
		}
		return UnixAddress{Name: address[1:], Abstract: true}, nil
	}
	return UnixAddress{Name: address}, nil
}

// SockaddrName returns the kernel-level name: the abstract marker becomes a
// leading NUL byte, filesystem paths pass through.
func (a UnixAddress) SockaddrName() string {
	if a.Abstract {
		return "\x00" + a.Name
	}
	return a.Name
}

// String renders the address in the form ParseUnixAddress accepts.
func (a UnixAddress) String() string {
	if a.Abstract {
		return string(AbstractMarker) + a.Name
	}
	return a.Name
}

// ParseEndpoint splits "tcp://<ip>:<port>" or "ipc://<path>" into a
// transport and the address string its backend expects.
func ParseEndpoint(endpoint string) (api.Transport, string, error) {
	for _, t := range []api.Transport{api.TCP, api.UnixDomain} {
		if rest, ok := strings.CutPrefix(endpoint, t.Scheme()); ok {
			return t, rest, nil
		}
	}
	return api.TransportUnknown, "", api.NewError(api.ErrCodeUnsupportedTransport, "endpoint", "unknown scheme").
		WithContext("endpoint", endpoint)
}

func parseError(address, reason string) *api.Error {
	return api.NewError(api.ErrCodeParse, "parse address", reason).WithContext("address", address)
}
