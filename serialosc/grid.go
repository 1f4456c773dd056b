package serialosc

import (
	"context"
	"fmt"
	"sync"

	"github.com/hypebeast/go-osc/osc"

	"transit/debug"
	"transit/grid"
)

const quad = 8

// Grid is a monome grid reached through serialosc. Grid x is the row and
// y the column.
type Grid struct {
	info   DeviceInfo
	host   string
	prefix string
	rows   int
	cols   int

	dev    *osc.Client
	daemon *osc.Client
	l      *listener

	keys chan grid.KeyEvent

	mu     sync.Mutex
	shown  *grid.Buffer
	closed bool
	gone   chan struct{} // closed when serialosc reports the device removed
	once   sync.Once
	stop   sync.Once
}

// Dial connects to the configured grid (or the first one found) and waits
// for its size
func Dial(ctx context.Context, cfg Config) (*Grid, error) {
	cfg = cfg.withDefaults()

	devices, err := Discover(ctx, cfg)
	if err != nil {
		return nil, err
	}
	info, ok := pick(devices, cfg.DeviceID)
	if !ok {
		return nil, ErrNoDevice
	}
	return Open(ctx, cfg, info)
}

func pick(devices []DeviceInfo, id string) (DeviceInfo, bool) {
	for _, d := range devices {
		if id == "" || d.ID == id {
			return d, true
		}
	}
	return DeviceInfo{}, false
}

// Open sets up a known device: routes its messages to us, applies prefix and
// rotation, then waits for /sys/size
func Open(ctx context.Context, cfg Config, info DeviceInfo) (*Grid, error) {
	cfg = cfg.withDefaults()

	g := &Grid{
		info:   info,
		host:   cfg.Host,
		prefix: cfg.Prefix,
		dev:    osc.NewClient(cfg.Host, info.Port),
		daemon: osc.NewClient(cfg.Host, cfg.Port),
		keys:   make(chan grid.KeyEvent, 64),
		gone:   make(chan struct{}),
	}

	sized := make(chan struct{})
	d := osc.NewStandardDispatcher()
	d.AddMsgHandler("/sys/size", func(msg *osc.Message) {
		w, h, ok := twoInts(msg)
		if !ok || w <= 0 || h <= 0 {
			return
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.rows == 0 {
			g.rows, g.cols = w, h
			close(sized)
		}
	})
	d.AddMsgHandler(cfg.Prefix+"/grid/key", g.handleKey)
	d.AddMsgHandler("/serialosc/remove", g.handleRemove)
	d.AddMsgHandler("/serialosc/add", func(*osc.Message) { g.notify() })

	l, err := listen(cfg.Host, d)
	if err != nil {
		return nil, err
	}
	g.l = l
	port := int32(l.Port())

	setup := []*osc.Message{
		osc.NewMessage("/sys/port", port),
		osc.NewMessage("/sys/host", cfg.Host),
		osc.NewMessage("/sys/prefix", cfg.Prefix),
		osc.NewMessage("/sys/rotation", int32(cfg.Rotation)),
		osc.NewMessage("/sys/info", cfg.Host, port),
	}
	for _, msg := range setup {
		if err := g.dev.Send(msg); err != nil {
			l.Close()
			return nil, fmt.Errorf("setup %s: %w", info.ID, err)
		}
	}

	wait, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	select {
	case <-sized:
	case <-wait.Done():
		l.Close()
		return nil, fmt.Errorf("size handshake %s: %w", info.ID, wait.Err())
	}

	g.notify()
	debug.Log("serialosc", "opened %s (%s) %dx%d on port %d", info.ID, info.Type, g.rows, g.cols, info.Port)
	return g, nil
}

// notify asks the daemon for the next add/remove event (one-shot)
func (g *Grid) notify() {
	msg := osc.NewMessage("/serialosc/notify", g.host, int32(g.l.Port()))
	if err := g.daemon.Send(msg); err != nil {
		debug.Warn("serialosc", "notify: %v", err)
	}
}

func (g *Grid) handleKey(msg *osc.Message) {
	ev, ok := parseKey(msg)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || ev.Row < 0 || ev.Row >= g.rows || ev.Col < 0 || ev.Col >= g.cols {
		return
	}
	select {
	case g.keys <- ev:
	default:
		debug.Warn("serialosc", "key queue full, dropped %+v", ev)
	}
}

func (g *Grid) handleRemove(msg *osc.Message) {
	info, ok := parseDevice(msg)
	if !ok || info.ID != g.info.ID {
		g.notify()
		return
	}
	debug.Log("serialosc", "device %s removed", info.ID)
	g.once.Do(func() { close(g.gone) })
	g.mu.Lock()
	if !g.closed {
		g.closed = true
		close(g.keys)
	}
	g.mu.Unlock()
}

// parseKey reads /grid/key x y s
func parseKey(msg *osc.Message) (grid.KeyEvent, bool) {
	if len(msg.Arguments) < 3 {
		return grid.KeyEvent{}, false
	}
	x, ok1 := msg.Arguments[0].(int32)
	y, ok2 := msg.Arguments[1].(int32)
	s, ok3 := msg.Arguments[2].(int32)
	if !ok1 || !ok2 || !ok3 {
		return grid.KeyEvent{}, false
	}
	state := grid.Release
	if s != 0 {
		state = grid.Press
	}
	return grid.KeyEvent{Row: int(x), Col: int(y), State: state}, true
}

func twoInts(msg *osc.Message) (int, int, bool) {
	if len(msg.Arguments) < 2 {
		return 0, 0, false
	}
	a, ok1 := msg.Arguments[0].(int32)
	b, ok2 := msg.Arguments[1].(int32)
	return int(a), int(b), ok1 && ok2
}

func (g *Grid) ID() string { return g.info.ID }

func (g *Grid) Info() DeviceInfo { return g.info }

func (g *Grid) Size() (rows, cols int) { return g.rows, g.cols }

func (g *Grid) Keys() <-chan grid.KeyEvent { return g.keys }

// Render sends every 8x8 quad that changed since the last frame
func (g *Grid) Render(b *grid.Buffer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}

	for xOff := 0; xOff < g.rows; xOff += quad {
		for yOff := 0; yOff < g.cols; yOff += quad {
			if g.shown != nil && sameQuad(g.shown, b, xOff, yOff) {
				continue
			}
			if err := g.dev.Send(levelMap(g.prefix, b, xOff, yOff)); err != nil {
				g.shown = nil
				return fmt.Errorf("send to %s: %w", g.info.ID, err)
			}
		}
	}
	g.shown = b.Clone()
	return nil
}

// quadLevels packs one 8x8 quad row-major in device coordinates (y*8 + x)
func quadLevels(b *grid.Buffer, xOff, yOff int) []int32 {
	levels := make([]int32, quad*quad)
	for y := 0; y < quad; y++ {
		for x := 0; x < quad; x++ {
			levels[y*quad+x] = int32(b.Level(xOff+x, yOff+y))
		}
	}
	return levels
}

func levelMap(prefix string, b *grid.Buffer, xOff, yOff int) *osc.Message {
	args := []interface{}{int32(xOff), int32(yOff)}
	for _, l := range quadLevels(b, xOff, yOff) {
		args = append(args, l)
	}
	return osc.NewMessage(prefix+"/grid/led/level/map", args...)
}

func sameQuad(a, b *grid.Buffer, xOff, yOff int) bool {
	for x := xOff; x < xOff+quad; x++ {
		for y := yOff; y < yOff+quad; y++ {
			if a.Level(x, y) != b.Level(x, y) {
				return false
			}
		}
	}
	return true
}

// Close darkens the grid and stops listening. The key channel is closed.
func (g *Grid) Close() error {
	var err error
	g.stop.Do(func() {
		g.mu.Lock()
		if !g.closed {
			g.closed = true
			close(g.keys)
		}
		g.mu.Unlock()

		select {
		case <-g.gone:
		default:
			if err := g.dev.Send(osc.NewMessage(g.prefix+"/grid/led/level/all", int32(0))); err != nil {
				debug.Warn("serialosc", "clear %s: %v", g.info.ID, err)
			}
		}
		err = g.l.Close()
		debug.Log("serialosc", "closed %s", g.info.ID)
	})
	return err
}
