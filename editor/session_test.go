package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AmsynthGUI/control"
	"AmsynthGUI/host"
	"AmsynthGUI/params"
	"AmsynthGUI/ui"
)

const testNamespace = "/dssi/amsynth/1"

type dirReader string

func (d dirReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), name))
}

type recorder struct {
	sent []*osc.Message
}

func (r *recorder) Send(p osc.Packet) error {
	r.sent = append(r.sent, p.(*osc.Message))
	return nil
}

func (r *recorder) addressed(method string) []*osc.Message {
	var out []*osc.Message
	want := control.NewNamespace(testNamespace).Path(method)
	for _, m := range r.sent {
		if m.Address == want {
			out = append(out, m)
		}
	}
	return out
}

type fakeWindow struct {
	shown, hidden, focused int
}

func (w *fakeWindow) Show()         { w.shown++ }
func (w *fakeWindow) Hide()         { w.hidden++ }
func (w *fakeWindow) RequestFocus() { w.focused++ }

type fixture struct {
	session *Session
	sent    *recorder
	window  *fakeWindow
	stops   int
	hook    *logtest.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := params.LoadCatalog(dirReader(".."))
	require.NoError(t, err)

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	f := &fixture{sent: &recorder{}, window: &fakeWindow{}, hook: hook}
	link := host.NewClientWithSender(control.NewNamespace(testNamespace), f.sent, log)
	f.session = NewSession(params.NewAdjustments(catalog), link, f.window, func() { f.stops++ }, log)
	return f
}

func controlMsg(port int32, value float32) control.Message {
	return control.Message{Kind: control.KindControl, Path: testNamespace + "/control", Types: "if", Port: port, Value: value}
}

func TestHostControlIsAppliedWithoutEcho(t *testing.T) {
	f := newFixture(t)

	for i, adj := range f.session.Adjustments() {
		value := float32(adj.Lower + (adj.Upper-adj.Lower)/4)
		require.NoError(t, f.session.Handle(controlMsg(int32(i+2), value)))
		assert.Equal(t, float64(value), adj.Value(), adj.Name)
	}

	assert.Empty(t, f.sent.sent, "host updates must not be echoed")
	assert.False(t, f.session.applyingHostValue)
	assert.Equal(t, len(f.session.Adjustments()), f.session.Stats().Applied)
}

func TestUserChangeSendsOneControl(t *testing.T) {
	f := newFixture(t)

	for i, adj := range f.session.Adjustments() {
		before := len(f.sent.sent)
		target := adj.Upper
		if adj.Value() == target {
			target = adj.Lower
		}
		adj.SetValue(target)

		require.Len(t, f.sent.sent, before+1, adj.Name)
		last := f.sent.sent[len(f.sent.sent)-1]
		assert.Equal(t, testNamespace+"/control", last.Address)
		assert.Equal(t, []interface{}{int32(i + 2), float32(target)}, last.Arguments)
	}
}

func TestRoundTripPortFive(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Handle(controlMsg(5, 0.75)))
	assert.Equal(t, 0.75, f.session.Adjustments()[3].Value())
	assert.Empty(t, f.sent.sent)
}

func TestHostValueIsClampedToBounds(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Handle(controlMsg(5, 100)))
	adj := f.session.Adjustments()[3]
	assert.Equal(t, adj.Upper, adj.Value())
	assert.Empty(t, f.sent.sent)
}

func TestControlOutOfRange(t *testing.T) {
	f := newFixture(t)
	n := int32(len(f.session.Adjustments()))

	for _, port := range []int32{0, 1, n + 2, 1000} {
		err := f.session.Handle(controlMsg(port, 0.5))
		assert.True(t, errors.Is(err, ErrPortOutOfRange), "port %d", port)
	}
	assert.Equal(t, 4, f.session.Stats().Dropped)
	assert.Empty(t, f.sent.sent)
	assert.False(t, f.session.applyingHostValue)
}

func TestUnknownMessageIsReported(t *testing.T) {
	f := newFixture(t)

	err := f.session.Handle(control.Message{Kind: control.KindUnknown, Path: "/dssi/amsynth/1/configure", Types: "ss"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.session.Stats().Dropped)
	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "/dssi/amsynth/1/configure", entry.Data["path"])
	assert.Contains(t, entry.Message, "types = 'ss'")
	assert.Equal(t, StateRunning, f.session.State())
}

func TestInformationalMessages(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Handle(control.Message{Kind: control.KindSampleRate, Rate: 44100}))
	assert.Equal(t, "sample rate = 44100", f.hook.LastEntry().Message)

	require.NoError(t, f.session.Handle(control.Message{Kind: control.KindProgram, Bank: 0, Program: 7}))
	assert.Equal(t, "selected bank 0 program  7", f.hook.LastEntry().Message)

	assert.Empty(t, f.sent.sent)
	assert.Zero(t, f.session.Stats().Dropped)
}

func TestShowHide(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Handle(control.Message{Kind: control.KindShow}))
	require.NoError(t, f.session.Handle(control.Message{Kind: control.KindShow}))
	require.NoError(t, f.session.Handle(control.Message{Kind: control.KindHide}))

	assert.Equal(t, 2, f.window.shown)
	assert.Equal(t, 2, f.window.focused)
	assert.Equal(t, 1, f.window.hidden)
	assert.Equal(t, StateRunning, f.session.State())
	assert.Empty(t, f.sent.sent)
}

func TestCloseNotifiesOnce(t *testing.T) {
	f := newFixture(t)

	f.session.Close()
	f.session.Close()

	assert.Len(t, f.sent.addressed(control.MethodExiting), 1)
	assert.Equal(t, 1, f.stops)
	assert.Equal(t, StateExiting, f.session.State())
}

func TestQuitDoesNotNotify(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Handle(control.Message{Kind: control.KindQuit}))
	f.session.Close()

	assert.Empty(t, f.sent.addressed(control.MethodExiting))
	assert.Equal(t, 1, f.stops)
	assert.Equal(t, StateExiting, f.session.State())
}

func TestNoControlAfterExit(t *testing.T) {
	f := newFixture(t)
	f.session.Close()
	sent := len(f.sent.sent)

	f.session.Adjustments()[0].SetValue(1)
	assert.Len(t, f.sent.sent, sent)
}

func TestReadySendsUpdateOnce(t *testing.T) {
	f := newFixture(t)

	f.session.Ready("osc.udp://127.0.0.1:5000/dssi/amsynth/1")
	f.session.Ready("osc.udp://127.0.0.1:5000/dssi/amsynth/1")

	updates := f.sent.addressed(control.MethodUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, []interface{}{"osc.udp://127.0.0.1:5000/dssi/amsynth/1"}, updates[0].Arguments)
}

func TestHostControlSurvivesWindowSliders(t *testing.T) {
	catalog, err := params.LoadCatalog(dirReader(".."))
	require.NoError(t, err)

	a := test.NewApp()
	defer a.Quit()

	log, _ := logtest.NewNullLogger()
	sent := &recorder{}
	adjs := params.NewAdjustments(catalog)
	w, widgets := ui.CreateMainWindow(a, "amsynth - 1", catalog, adjs)
	require.Len(t, widgets, len(adjs))

	link := host.NewClientWithSender(control.NewNamespace(testNamespace), sent, log)
	s := NewSession(adjs, link, w, func() {}, log)

	for i, adj := range adjs {
		// A quarter of the range is off-step for every discrete parameter.
		value := float32(adj.Lower + (adj.Upper-adj.Lower)/4)
		require.NoError(t, s.Handle(controlMsg(int32(i+2), value)))
		assert.Equal(t, float64(value), adj.Value(), "%s sent %v", adj.Name, value)
	}
	assert.Empty(t, sent.sent, "host updates must not be echoed")

	adj := adjs[16]
	require.Equal(t, "lfo_waveform", adj.Name)
	require.NoError(t, s.Handle(controlMsg(18, 1.5)))
	assert.Equal(t, 1.5, adj.Value())
	assert.Empty(t, sent.sent)
}
