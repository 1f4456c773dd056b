package midi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"transit/debug"
	"transit/theme"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ErrPortsTimeout is returned when the MIDI backend doesn't answer
var ErrPortsTimeout = errors.New("timed out listing MIDI ports")

// DeviceEvent is emitted when Launchpads connect/disconnect
type DeviceEvent struct {
	Type DeviceEventType
	Grid *Launchpad // nil on disconnect
	ID   string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// Options select which ports the DeviceManager opens
type Options struct {
	// PortName restricts detection to ports containing this string
	// (case-insensitive). Empty means any Launchpad.
	PortName string
	// Kind forces the protocol; KindUnknown guesses from the port name.
	Kind   Kind
	Colors theme.LevelColors
}

// DeviceManager handles hot-plug detection of Launchpads
type DeviceManager struct {
	opts        Options
	controllers map[string]*Launchpad
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(opts Options) *DeviceManager {
	return &DeviceManager{
		opts:        opts,
		controllers: make(map[string]*Launchpad),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events.
// It is closed when Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

// Ports lists MIDI input and output port names. The backend can hang
// (CoreMIDI), so the call gives up after timeout.
func Ports(timeout time.Duration) (ins, outs []string, err error) {
	inPorts, outPorts, err := listPorts(timeout)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

func listPorts(timeout time.Duration) ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case result := <-ch:
		return result.inPorts, result.outPorts, nil
	case <-time.After(timeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, nil, ErrPortsTimeout
	}
}

// Matches reports whether a port name is a Launchpad this manager should open
func (dm *DeviceManager) Matches(name string) bool {
	lower := strings.ToLower(name)
	if dm.opts.PortName != "" {
		return strings.Contains(lower, strings.ToLower(dm.opts.PortName))
	}
	return isLaunchpad(lower)
}

func (dm *DeviceManager) scan(ctx context.Context) {
	inPorts, outPorts, err := listPorts(3 * time.Second)
	if err != nil {
		debug.Warn("devices", "scan: %v", err)
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		id := inPort.String()
		if !dm.Matches(id) {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		// Find matching output port
		var outPort drivers.Out
		for j, op := range outPorts {
			if strings.EqualFold(op.String(), id) {
				outPort = outPorts[j]
				break
			}
		}

		lp, err := NewLaunchpad(id, dm.opts.Kind, inPorts[i], outPort, dm.opts.Colors)
		if err != nil {
			debug.Warn("devices", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = lp
		dm.mu.Unlock()

		select {
		case dm.events <- DeviceEvent{Type: DeviceConnected, Grid: lp, ID: id}:
		case <-ctx.Done():
			return
		}
	}

	// Check for disconnects
	var gone []string
	dm.mu.Lock()
	for id, lp := range dm.controllers {
		if !seenIDs[id] {
			lp.Close()
			delete(dm.controllers, id)
			gone = append(gone, id)
		}
	}
	dm.mu.Unlock()

	for _, id := range gone {
		debug.Log("devices", "disconnected %s", id)
		select {
		case dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}:
		case <-ctx.Done():
			return
		}
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]*Launchpad)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	if !strings.Contains(name, "launchpad") {
		return false
	}
	// Mini MK3 / X expose a DAW port too; only the MIDI one takes pads
	if strings.Contains(name, "daw") {
		return false
	}
	return true
}
