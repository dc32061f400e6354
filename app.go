// Package main contains the application wiring and the AppManager which
// connects the editor window, the parameter session and the OSC link to the
// DSSI host.
//
// Maintenance notes / tips:
//   - Threading model: the Fyne event loop owns all editor state. The OSC
//     server reads packets on its own goroutine and posts each decoded
//     message to the loop with fyne.Do, so editor.Session never sees two
//     goroutines at once. Keep it that way; the echo guard in Session is a
//     plain bool and relies on it.
//   - The window starts hidden. DSSI hosts open and close the editor with
//     the "show" and "hide" messages.
//   - Shutdown: the window's OnClosed, SIGINT/SIGTERM and the return of the
//     event loop all call Session.Close, which notifies the host at most
//     once. The host's own "quit" message stops the loop without a notice.
//   - stopLoop must not call Quit after the loop has returned.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"fyne.io/fyne/v2"
	log "github.com/sirupsen/logrus"

	"AmsynthGUI/config"
	"AmsynthGUI/control"
	"AmsynthGUI/editor"
	"AmsynthGUI/host"
	"AmsynthGUI/params"
	"AmsynthGUI/ui"
)

// AppID identifies the application to Fyne (preferences, window class).
const AppID = "net.sourceforge.amsynth.dssi-gui"

// AppManager is the main application struct, holding all state.
type AppManager struct {
	cfg      config.Config
	endpoint host.Endpoint
	catalog  *params.Catalog

	fyneApp    fyne.App
	mainWindow fyne.Window
	sender     host.Sender
	client     *host.Client
	server     *host.Server
	session    *editor.Session

	loopDone atomic.Bool
}

// NewAppManager creates a new application manager on top of fyneApp.
func NewAppManager(cfg config.Config, ep host.Endpoint, catalog *params.Catalog, fyneApp fyne.App) *AppManager {
	return &AppManager{cfg: cfg, endpoint: ep, catalog: catalog, fyneApp: fyneApp}
}

// SetSender replaces the UDP transport to the host. Must be called before Setup.
func (a *AppManager) SetSender(s host.Sender) {
	a.sender = s
}

// Setup opens the socket and builds the window and the session. The window
// is not shown.
func (a *AppManager) Setup(title string) error {
	logger := log.StandardLogger()

	if a.sender != nil {
		a.client = host.NewClientWithSender(a.endpoint.Namespace, a.sender, logger)
	} else {
		a.client = host.NewClient(a.endpoint, logger)
	}

	server, err := host.Listen(a.cfg.Listen, a.endpoint, a.onHostMessage, logger)
	if err != nil {
		return err
	}
	a.server = server

	a.fyneApp.Settings().SetTheme(ui.NewSynthTheme())

	adjs := params.NewAdjustments(a.catalog)
	window, widgets := ui.CreateMainWindow(a.fyneApp, title, a.catalog, adjs)
	log.Debugf("Built %d parameter widgets in %d groups.", len(widgets), len(a.catalog.Groups()))

	a.mainWindow = window
	a.session = editor.NewSession(adjs, a.client, a.mainWindow, a.stopLoop, logger)
	a.mainWindow.SetOnClosed(a.session.Close)
	return nil
}

// Run sets up the editor, announces it to the host and blocks until the
// event loop ends.
func (a *AppManager) Run(title string) error {
	if err := a.Setup(title); err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.start(ctx)

	a.fyneApp.Run()
	a.finish()
	return nil
}

// start serves host messages until ctx is cancelled and requests the
// initial parameter values.
func (a *AppManager) start(ctx context.Context) {
	go func() {
		if err := a.server.Serve(ctx); err != nil {
			log.Errorf("OSC server error: %v", err)
		}
	}()
	go a.watchSignals(ctx)

	a.session.Ready(a.server.URL())
}

// finish runs once the event loop has returned. The window may have gone
// away without OnClosed firing.
func (a *AppManager) finish() {
	a.loopDone.Store(true)
	a.session.Close()
	log.Debugf("session stats: %+v", a.session.Stats())
}

// Close releases the socket.
func (a *AppManager) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

// onHostMessage runs on the OSC server goroutine.
func (a *AppManager) onHostMessage(m control.Message) {
	fyne.Do(func() {
		if err := a.session.Handle(m); err != nil {
			log.WithField("path", m.Path).Errorf("OSC %s: %v", m.Kind, err)
		}
	})
}

func (a *AppManager) watchSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		log.Infof("received %v, closing editor", sig)
		fyne.Do(a.session.Close)
	}
}

func (a *AppManager) stopLoop() {
	if a.loopDone.Load() {
		return
	}
	a.fyneApp.Quit()
}
