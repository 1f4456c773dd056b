// Package serialosc talks to monome grids through the serialosc daemon.
package serialosc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"transit/debug"
)

const (
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 12002
	DefaultPrefix   = "/transit"
	DefaultRotation = 90
)

// ErrNoDevice is returned when serialosc reports no (matching) grid
var ErrNoDevice = errors.New("no serialosc device found")

// Config locates the daemon and sets up the grid
type Config struct {
	Host     string // daemon host, also where replies are sent
	Port     int    // daemon port
	Prefix   string
	Rotation int    // 0, 90, 180 or 270
	DeviceID string // empty picks the first device

	// Timeout bounds discovery and the size handshake
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Timeout <= 0 {
		c.Timeout = time.Second
	}
	return c
}

// DeviceInfo is one /serialosc/device reply
type DeviceInfo struct {
	ID   string
	Type string
	Port int
}

// Discover asks the daemon for attached grids and collects the replies that
// arrive before the timeout (or ctx) expires
func Discover(ctx context.Context, cfg Config) ([]DeviceInfo, error) {
	cfg = cfg.withDefaults()

	var (
		mu      sync.Mutex
		devices []DeviceInfo
	)
	d := osc.NewStandardDispatcher()
	d.AddMsgHandler("/serialosc/device", func(msg *osc.Message) {
		info, ok := parseDevice(msg)
		if !ok {
			return
		}
		mu.Lock()
		devices = append(devices, info)
		mu.Unlock()
	})

	l, err := listen(cfg.Host, d)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	daemon := osc.NewClient(cfg.Host, cfg.Port)
	if err := daemon.Send(osc.NewMessage("/serialosc/list", cfg.Host, int32(l.Port()))); err != nil {
		return nil, fmt.Errorf("serialosc list: %w", err)
	}

	timer := time.NewTimer(cfg.Timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}

	mu.Lock()
	defer mu.Unlock()
	debug.Log("serialosc", "discovered %d device(s)", len(devices))
	return append([]DeviceInfo(nil), devices...), nil
}

func parseDevice(msg *osc.Message) (DeviceInfo, bool) {
	if len(msg.Arguments) < 3 {
		return DeviceInfo{}, false
	}
	id, ok1 := msg.Arguments[0].(string)
	typ, ok2 := msg.Arguments[1].(string)
	port, ok3 := msg.Arguments[2].(int32)
	if !ok1 || !ok2 || !ok3 {
		return DeviceInfo{}, false
	}
	return DeviceInfo{ID: id, Type: typ, Port: int(port)}, true
}

// listener reads OSC packets from one UDP socket and dispatches them in
// arrival order on a single goroutine
type listener struct {
	conn net.PacketConn
	done chan struct{}
}

func listen(host string, d osc.Dispatcher) (*listener, error) {
	conn, err := net.ListenPacket("udp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	l := &listener{conn: conn, done: make(chan struct{})}
	go l.serve(d)
	return l, nil
}

func (l *listener) Port() int {
	return l.conn.LocalAddr().(*net.UDPAddr).Port
}

func (l *listener) serve(d osc.Dispatcher) {
	defer close(l.done)
	buf := make([]byte, 65535)
	for {
		n, _, err := l.conn.ReadFrom(buf)
		if err != nil {
			return
		}
		packet, err := osc.ParsePacket(string(buf[:n]))
		if err != nil {
			debug.Warn("serialosc", "bad packet: %v", err)
			continue
		}
		d.Dispatch(packet)
	}
}

// Close stops the read loop and waits for it to exit
func (l *listener) Close() error {
	err := l.conn.Close()
	<-l.done
	return err
}
