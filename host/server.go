package host

import (
	"context"
	"errors"
	"net"

	"github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"

	"AmsynthGUI/control"
)

// maxPacketSize is the largest UDP payload we accept.
const maxPacketSize = 65535

// HandlerFunc receives every decoded inbound message, including unknown ones.
type HandlerFunc func(control.Message)

// Dispatcher decodes OSC packets for one namespace and passes them on in
// arrival order. Bundles are flattened, messages before nested bundles.
type Dispatcher struct {
	ns     control.Namespace
	handle HandlerFunc
}

var _ osc.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher for the namespace.
func NewDispatcher(ns control.Namespace, handle HandlerFunc) *Dispatcher {
	return &Dispatcher{ns: ns, handle: handle}
}

// Dispatch implements osc.Dispatcher.
func (d *Dispatcher) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		d.handle(control.Decode(d.ns, p))
	case *osc.Bundle:
		for _, m := range p.Messages {
			d.handle(control.Decode(d.ns, m))
		}
		for _, b := range p.Bundles {
			d.Dispatch(b)
		}
	}
}

// Server owns the GUI's listening socket.
type Server struct {
	conn       net.PacketConn
	dispatcher osc.Dispatcher
	url        string
	log        logrus.FieldLogger
}

// Listen binds a UDP socket on bindHost with an ephemeral port. An empty
// bindHost listens on all interfaces.
func Listen(bindHost string, ep Endpoint, handle HandlerFunc, log logrus.FieldLogger) (*Server, error) {
	conn, err := net.ListenPacket("udp", net.JoinHostPort(bindHost, "0"))
	if err != nil {
		return nil, err
	}
	port := conn.LocalAddr().(*net.UDPAddr).Port

	advertised := bindHost
	if advertised == "" || net.ParseIP(advertised).IsUnspecified() {
		advertised = ReturnIP(ep.Host)
	}

	return &Server{
		conn:       conn,
		dispatcher: NewDispatcher(ep.Namespace, handle),
		url:        ep.URL(advertised, port),
		log:        log.WithField("component", "host-server"),
	}, nil
}

// URL is the address the host should send to, including our namespace.
func (s *Server) URL() string {
	return s.url
}

// LocalAddr returns the bound socket address.
func (s *Server) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Serve reads packets until ctx is cancelled or the socket is closed.
// Packets are dispatched synchronously so their order is preserved.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	s.log.Infof("listening on %s", s.url)
	buf := make([]byte, maxPacketSize)
	for {
		n, _, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		packet, err := osc.ParsePacket(string(buf[:n]))
		if err != nil {
			s.log.Warnf("dropping malformed packet: %v", err)
			continue
		}
		s.dispatcher.Dispatch(packet)
	}
}

// Close releases the socket.
func (s *Server) Close() error {
	return s.conn.Close()
}
