package host

import (
	"github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"

	"AmsynthGUI/control"
)

// Sender delivers an OSC packet. *osc.Client satisfies it.
type Sender interface {
	Send(packet osc.Packet) error
}

// Client sends GUI-originated messages to the plugin host. Sends are
// fire-and-forget: failures are logged and returned, never retried.
type Client struct {
	ns     control.Namespace
	sender Sender
	log    logrus.FieldLogger
}

// NewClient creates a client speaking UDP to the endpoint.
func NewClient(ep Endpoint, log logrus.FieldLogger) *Client {
	return NewClientWithSender(ep.Namespace, osc.NewClient(ep.Host, ep.Port), log)
}

// NewClientWithSender creates a client over an arbitrary sender.
func NewClientWithSender(ns control.Namespace, s Sender, log logrus.FieldLogger) *Client {
	return &Client{ns: ns, sender: s, log: log.WithField("component", "host-client")}
}

// SetControl reports a parameter value on the given port.
func (c *Client) SetControl(port int32, value float32) error {
	c.log.Debugf("set control %d = %f", port, value)
	return c.send(control.ControlMessage(c.ns, port, value))
}

// SetProgram asks the host to select a bank and program.
func (c *Client) SetProgram(bank, program int32) error {
	return c.send(control.ProgramMessage(c.ns, bank, program))
}

// RequestUpdate tells the host the GUI is ready and where to reach it.
func (c *Client) RequestUpdate(selfURL string) error {
	c.log.Infof("requesting update, reachable at %s", selfURL)
	return c.send(control.UpdateMessage(c.ns, selfURL))
}

// Exiting notifies the host that the GUI is closing.
func (c *Client) Exiting() error {
	c.log.Info("notifying host of exit")
	return c.send(control.ExitingMessage(c.ns))
}

func (c *Client) send(msg *osc.Message) error {
	if err := c.sender.Send(msg); err != nil {
		c.log.WithField("path", msg.Address).Warnf("send failed: %v", err)
		return err
	}
	return nil
}
