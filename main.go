package main

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"AmsynthGUI/config"
	"AmsynthGUI/host"
	"AmsynthGUI/i18n"
	"AmsynthGUI/params"
	"AmsynthGUI/ui"
)

//go:embed assets/*
var content embed.FS

// ErrNotEnoughArgs is returned when the host did not pass the DSSI GUI arguments.
var ErrNotEnoughArgs = errors.New("not enough arguments supplied")

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "amsynth_dssi_gui <host-url> <library> <plugin-name> <identifier>",
		Short: "DSSI editor window for amsynth",
		Long: `amsynth_dssi_gui is started by a DSSI host, never by hand. It opens the
amsynth parameter editor and talks to the host over OSC at <host-url>.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(4)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v", ErrNotEnoughArgs, err)
			}
			return nil
		},
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               runGUI,
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit status.
func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func runGUI(_ *cobra.Command, args []string) error {
	hostURL, pluginName, identifier := args[0], args[2], args[3]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.Level())

	ep, err := host.ParseEndpoint(hostURL)
	if err != nil {
		return err
	}

	catalog, err := params.LoadCatalog(content)
	if err != nil {
		return err
	}
	log.Debugf("Loaded %d parameters.", catalog.Len())

	if err := cfg.ExportDataDir(); err != nil {
		log.Warnf("Failed to set %s: %v", config.DataDirEnv, err)
	}
	i18n.Init(cfg.Lang)

	a := NewAppManager(cfg, ep, catalog, app.NewWithID(AppID))
	return a.Run(ui.WindowTitle(pluginName, identifier))
}
