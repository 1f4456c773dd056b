package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"transit/config"
	"transit/debug"
	"transit/grid"
	"transit/midi"
	"transit/sequencer"
	"transit/serialosc"
	"transit/theme"
	"transit/tui"
)

var (
	driverName  string
	projectName string
	fresh       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the grid editor",
	Long: `Start the grid editor with a terminal status view.

The grid comes from the configured driver:
  serialosc  a monome grid through the serialosc daemon
  launchpad  a Novation Launchpad (X or S) over MIDI, hot-pluggable
  virtual    an on-screen grid driven by keyboard and mouse

Example:
  transit run --driver virtual --project demo`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&driverName, "driver", "d", "", "grid driver: serialosc, launchpad or virtual (default from config)")
	runCmd.Flags().StringVarP(&projectName, "project", "p", "", "project to load and save into (default from config)")
	runCmd.Flags().BoolVar(&fresh, "fresh", false, "start empty instead of loading the latest save")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	driver := cfg.Driver
	if driverName != "" {
		driver = config.Driver(driverName)
	}
	if !driver.Valid() {
		return fmt.Errorf("unknown driver %q", driver)
	}
	project := projectName
	if project == "" {
		project = cfg.Project
	}

	th, err := loadTheme(cfg.Palette)
	if err != nil {
		return err
	}

	session := sequencer.NewSession()
	if project != "" && !fresh {
		loaded, err := sequencer.LoadProject(project, "")
		if err != nil {
			debug.Log("run", "starting %s empty: %v", project, err)
		} else {
			session = loaded
		}
	}

	manager := sequencer.NewManager(session, sequencer.LogPlayback{}, cfg.Tick())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var vg *tui.VirtualGrid
	if driver == config.DriverVirtual {
		vg = tui.NewVirtualGrid(cfg.Virtual.Rows, cfg.Virtual.Cols)
	}

	m := tui.NewModel(manager, vg, th, project)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	done := make(chan struct{})
	go func() {
		defer close(done)
		drive(ctx, driver, manager, vg, p, th)
	}()
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	debug.Log("run", "driver=%s project=%q tick=%v", driver, project, cfg.Tick())
	_, runErr := p.Run()
	cancel()
	<-done

	if project != "" {
		// the loop has stopped, the session is ours again
		if name, err := sequencer.SaveProject(project, "exit", manager.Session()); err != nil {
			debug.Warn("run", "save on exit: %v", err)
		} else {
			fmt.Printf("saved %s/%s\n", project, name)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run ui: %w", runErr)
	}
	return nil
}

func loadTheme(path string) (*theme.Theme, error) {
	if path == "" {
		return theme.New(nil), nil
	}
	palette, err := theme.LoadGPL(path)
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}
	return theme.New(palette), nil
}

// drive feeds grids to the manager until ctx is done. Hardware grids that
// go away are waited for and reattached; the session carries over.
func drive(ctx context.Context, driver config.Driver, manager *sequencer.Manager, vg *tui.VirtualGrid, p *tea.Program, th *theme.Theme) {
	switch driver {
	case config.DriverVirtual:
		p.Send(tui.DeviceMsg{ID: vg.ID()})
		runGrid(ctx, manager, vg)
		vg.Close()

	case config.DriverSerialOSC:
		oscCfg := serialosc.Config{
			Host:     cfg.SerialOSC.Host,
			Port:     cfg.SerialOSC.Port,
			Prefix:   cfg.SerialOSC.Prefix,
			Rotation: cfg.SerialOSC.Rotation,
			DeviceID: cfg.SerialOSC.DeviceID,
		}
		for ctx.Err() == nil {
			g, err := serialosc.Dial(ctx, oscCfg)
			if err != nil {
				debug.Warn("run", "serialosc: %v", err)
				if !sleep(ctx, 2*time.Second) {
					return
				}
				continue
			}
			info := g.Info()
			p.Send(tui.DeviceMsg{ID: fmt.Sprintf("%s (%s)", info.ID, info.Type)})
			runGrid(ctx, manager, g)
			g.Close()
			p.Send(tui.DeviceMsg{})
		}

	case config.DriverLaunchpad:
		kind, err := midi.ParseKind(cfg.Launchpad.Type)
		if err != nil {
			debug.Warn("run", "launchpad: %v", err)
		}
		dm := midi.NewDeviceManager(midi.Options{
			PortName: cfg.Launchpad.PortName,
			Kind:     kind,
			Colors:   th.Levels(),
		})
		go dm.Run(ctx)
		for ev := range dm.Events() {
			if ev.Type != midi.DeviceConnected {
				continue
			}
			p.Send(tui.DeviceMsg{ID: ev.ID})
			runGrid(ctx, manager, ev.Grid)
			p.Send(tui.DeviceMsg{})
		}
	}
}

// runGrid blocks until the grid goes away or ctx is done
func runGrid(ctx context.Context, manager *sequencer.Manager, dev grid.Device) {
	rows, cols := dev.Size()
	debug.Log("run", "attached %s (%dx%d)", dev.ID(), rows, cols)
	err := manager.Run(ctx, dev)
	switch {
	case errors.Is(err, sequencer.ErrDeviceClosed):
		debug.Log("run", "%s went away", dev.ID())
	case err != nil:
		debug.Warn("run", "%s: %v", dev.ID(), err)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
