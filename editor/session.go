// Package editor connects the parameter adjustments to the plugin host.
//
// Maintenance notes:
//   - Session is not safe for concurrent use. Every method, and every
//     adjustment listener, must run on the GUI goroutine. The OSC server
//     goroutine hands messages over with fyne.Do.
//   - applyingHostValue is the echo guard. It is true only while a value
//     received from the host is being written into its adjustment, so the
//     resulting change notification is not sent back to the host. Keep the
//     set/clear inside suppressEcho; it clears on every return path.
//   - Shutdown happens once. Window close, signals and the end of the event
//     loop all funnel into Close, which sends "exiting" at most once.
package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"AmsynthGUI/control"
	"AmsynthGUI/params"
)

// ErrPortOutOfRange is returned for control messages addressing a port with
// no parameter behind it.
var ErrPortOutOfRange = errors.New("control port out of range")

// State is the lifecycle state of a session.
type State int

const (
	StateRunning State = iota
	StateExiting
)

// HostLink is the outbound side of the OSC connection.
type HostLink interface {
	SetControl(port int32, value float32) error
	RequestUpdate(selfURL string) error
	Exiting() error
}

// Window is the part of the editor window the host can drive.
type Window interface {
	Show()
	Hide()
	RequestFocus()
}

// Stats counts message traffic, mostly for tests and debug logging.
type Stats struct {
	Received int
	Applied  int
	Sent     int
	Dropped  int
}

// Session is the shared state of the GUI process.
type Session struct {
	adjustments []*params.Adjustment
	link        HostLink
	window      Window
	stop        func()
	log         logrus.FieldLogger

	applyingHostValue bool
	hostQuit          bool
	state             State
	readyOnce         sync.Once
	closeOnce         sync.Once
	stats             Stats
}

// NewSession wires every adjustment to the host link. stop asks the event
// loop to return.
func NewSession(adjs []*params.Adjustment, link HostLink, window Window, stop func(), log logrus.FieldLogger) *Session {
	s := &Session{
		adjustments: adjs,
		link:        link,
		window:      window,
		stop:        stop,
		log:         log.WithField("component", "editor"),
	}
	for i, adj := range adjs {
		index := i
		adj.OnChanged(func(_ *params.Adjustment, value float64) {
			s.adjustmentChanged(index, value)
		})
	}
	return s
}

// Adjustments returns the parameter adjustments in index order.
func (s *Session) Adjustments() []*params.Adjustment {
	return s.adjustments
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Stats returns a copy of the traffic counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Ready announces the GUI to the host. Only the first call sends.
func (s *Session) Ready(selfURL string) {
	s.readyOnce.Do(func() {
		if err := s.link.RequestUpdate(selfURL); err == nil {
			s.stats.Sent++
		}
	})
}

// Handle applies one decoded host message.
func (s *Session) Handle(m control.Message) error {
	s.stats.Received++

	switch m.Kind {
	case control.KindControl:
		return s.applyControl(m)
	case control.KindSampleRate:
		s.log.Infof("sample rate = %d", m.Rate)
	case control.KindProgram:
		s.log.Infof("selected bank %d program %2d", m.Bank, m.Program)
	case control.KindShow:
		s.log.Info("show GUI window")
		s.window.Show()
		s.window.RequestFocus()
	case control.KindHide:
		s.log.Info("hide GUI window")
		s.window.Hide()
	case control.KindQuit:
		s.log.Info("quit GUI process")
		s.hostQuit = true
		s.shutdown(false)
	default:
		s.stats.Dropped++
		s.log.WithField("path", m.Path).Warnf("unhandled OSC message (path = '%s' types = '%s')", m.Path, m.Types)
	}
	return nil
}

func (s *Session) applyControl(m control.Message) error {
	index := m.ParameterIndex()
	if index < 0 || index >= len(s.adjustments) {
		s.stats.Dropped++
		return fmt.Errorf("%w: port %d (%d parameters)", ErrPortOutOfRange, m.Port, len(s.adjustments))
	}
	s.log.Infof("control %2d = %f", m.Port, m.Value)
	s.suppressEcho(func() {
		s.adjustments[index].SetValue(float64(m.Value))
	})
	s.stats.Applied++
	return nil
}

func (s *Session) suppressEcho(apply func()) {
	s.applyingHostValue = true
	defer func() { s.applyingHostValue = false }()
	apply()
}

func (s *Session) adjustmentChanged(index int, value float64) {
	if s.applyingHostValue || s.state != StateRunning {
		return
	}
	if err := s.link.SetControl(control.PortForIndex(index), float32(value)); err == nil {
		s.stats.Sent++
	}
}

// Close notifies the host and stops the event loop. Safe to call repeatedly;
// only the first call has an effect. If the host asked us to quit, no
// notification is sent.
func (s *Session) Close() {
	s.shutdown(!s.hostQuit)
}

func (s *Session) shutdown(notify bool) {
	s.closeOnce.Do(func() {
		s.state = StateExiting
		if notify {
			if err := s.link.Exiting(); err == nil {
				s.stats.Sent++
			}
		}
		if s.stop != nil {
			s.stop()
		}
	})
}
