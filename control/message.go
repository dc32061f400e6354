// Package control defines the OSC messages exchanged with the plugin host.
// Inbound packets are decoded once into a Message so the rest of the
// program switches on a Kind instead of matching address strings.
package control

import (
	"fmt"
	"strings"

	"github.com/hypebeast/go-osc/osc"
)

// PortOffset maps DSSI port numbers to parameter indices. The first two
// ports of the plugin are its audio outputs, so parameter i lives on port
// i+2. Hosts rely on this exact value.
const PortOffset = 2

// Kind enumerates the inbound message types understood by the GUI.
type Kind int

const (
	KindUnknown Kind = iota
	KindControl
	KindSampleRate
	KindProgram
	KindShow
	KindHide
	KindQuit
)

// Method suffixes appended to the instance namespace.
const (
	MethodControl    = "control"
	MethodSampleRate = "sample-rate"
	MethodProgram    = "program"
	MethodShow       = "show"
	MethodHide       = "hide"
	MethodQuit       = "quit"
	MethodUpdate     = "update"
	MethodExiting    = "exiting"
)

func (k Kind) String() string {
	switch k {
	case KindControl:
		return MethodControl
	case KindSampleRate:
		return MethodSampleRate
	case KindProgram:
		return MethodProgram
	case KindShow:
		return MethodShow
	case KindHide:
		return MethodHide
	case KindQuit:
		return MethodQuit
	}
	return "unknown"
}

// Message is a decoded host message. Only the fields relevant to Kind are
// set; Path and Types are always filled so unknown messages can be reported.
type Message struct {
	Kind  Kind
	Path  string
	Types string

	Port  int32
	Value float32

	Rate int32

	Bank    int32
	Program int32
}

// ParameterIndex returns the parameter index addressed by a control message.
func (m Message) ParameterIndex() int {
	return int(m.Port) - PortOffset
}

// PortForIndex is the inverse of Message.ParameterIndex.
func PortForIndex(index int) int32 {
	return int32(index + PortOffset)
}

// Namespace is the host-assigned path prefix identifying one plugin
// instance, stored without leading or trailing slashes.
type Namespace string

// NewNamespace normalises a URL path such as "/dssi/amsynth/1" or
// "dssi/amsynth/1/" into a Namespace.
func NewNamespace(path string) Namespace {
	return Namespace(strings.Trim(path, "/"))
}

// Path returns the full OSC address for a method in this namespace.
func (ns Namespace) Path(method string) string {
	if ns == "" {
		return "/" + method
	}
	return "/" + string(ns) + "/" + method
}

// Decode matches an inbound OSC message against the namespace. A known
// method with unexpected argument types decodes to KindUnknown.
func Decode(ns Namespace, msg *osc.Message) Message {
	m := Message{Kind: KindUnknown, Path: msg.Address, Types: TypeTags(msg.Arguments)}

	prefix := ns.Path("")
	if !strings.HasPrefix(msg.Address, prefix) {
		return m
	}

	switch strings.TrimPrefix(msg.Address, prefix) {
	case MethodControl:
		if m.Types != "if" {
			return m
		}
		m.Kind = KindControl
		m.Port = msg.Arguments[0].(int32)
		m.Value = msg.Arguments[1].(float32)
	case MethodSampleRate:
		if m.Types != "i" {
			return m
		}
		m.Kind = KindSampleRate
		m.Rate = msg.Arguments[0].(int32)
	case MethodProgram:
		if m.Types != "ii" {
			return m
		}
		m.Kind = KindProgram
		m.Bank = msg.Arguments[0].(int32)
		m.Program = msg.Arguments[1].(int32)
	case MethodShow:
		m.Kind = KindShow
	case MethodHide:
		m.Kind = KindHide
	case MethodQuit:
		m.Kind = KindQuit
	}
	return m
}

// TypeTags renders OSC type tags for a list of decoded arguments, without
// the leading comma.
func TypeTags(args []interface{}) string {
	var b strings.Builder
	for _, arg := range args {
		switch v := arg.(type) {
		case int32:
			b.WriteByte('i')
		case float32:
			b.WriteByte('f')
		case string:
			b.WriteByte('s')
		case []byte:
			b.WriteByte('b')
		case int64:
			b.WriteByte('h')
		case float64:
			b.WriteByte('d')
		case bool:
			if v {
				b.WriteByte('T')
			} else {
				b.WriteByte('F')
			}
		case nil:
			b.WriteByte('N')
		default:
			b.WriteString(fmt.Sprintf("?%T", v))
		}
	}
	return b.String()
}

// ControlMessage reports a parameter change to the host.
func ControlMessage(ns Namespace, port int32, value float32) *osc.Message {
	return osc.NewMessage(ns.Path(MethodControl), port, value)
}

// ProgramMessage selects a bank and program on the host.
func ProgramMessage(ns Namespace, bank, program int32) *osc.Message {
	return osc.NewMessage(ns.Path(MethodProgram), bank, program)
}

// UpdateMessage tells the host where to reach this GUI.
func UpdateMessage(ns Namespace, selfURL string) *osc.Message {
	return osc.NewMessage(ns.Path(MethodUpdate), selfURL)
}

// ExitingMessage notifies the host that the GUI is going away.
func ExitingMessage(ns Namespace) *osc.Message {
	return osc.NewMessage(ns.Path(MethodExiting))
}
