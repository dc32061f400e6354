// Package host carries OSC traffic between the GUI and the DSSI plugin host.
package host

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"AmsynthGUI/control"
)

// ErrBadEndpoint is returned for host URLs that cannot be used.
var ErrBadEndpoint = errors.New("invalid host url")

// Endpoint is the host side of the OSC link as given on the command line.
type Endpoint struct {
	Host      string
	Port      int
	Namespace control.Namespace
}

// ParseEndpoint parses a URL such as "osc.udp://localhost:19383/dssi/amsynth/1".
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrBadEndpoint, err)
	}
	if u.Scheme != "osc.udp" {
		return Endpoint{}, fmt.Errorf("%w: unsupported scheme %q", ErrBadEndpoint, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return Endpoint{}, fmt.Errorf("%w: missing host", ErrBadEndpoint)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil || port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: bad port %q", ErrBadEndpoint, u.Port())
	}
	return Endpoint{Host: host, Port: port, Namespace: control.NewNamespace(u.Path)}, nil
}

// Addr returns the host:port form of the endpoint.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// URL formats an OSC URL for the given address within this endpoint's namespace.
func (e Endpoint) URL(host string, port int) string {
	return fmt.Sprintf("osc.udp://%s/%s", net.JoinHostPort(host, strconv.Itoa(port)), e.Namespace)
}

// ReturnIP picks the address the host should use to reach us. Local hosts get
// the loopback address; remote ones get the first non-loopback IPv4 address.
func ReturnIP(hostName string) string {
	if hostName == "localhost" {
		return "127.0.0.1"
	}
	if ip := net.ParseIP(hostName); ip != nil && ip.IsLoopback() {
		return "127.0.0.1"
	}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return "127.0.0.1"
}
