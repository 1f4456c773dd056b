package serialosc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"transit/grid"
)

func TestQuadLevels(t *testing.T) {
	b := grid.NewBuffer(8, 16)
	b.Set(0, 0, 1)
	b.Set(7, 2, 9)
	b.Set(3, 12, 15)

	left := quadLevels(b, 0, 0)
	if len(left) != 64 {
		t.Fatalf("len = %d", len(left))
	}
	if left[0] != 1 || left[2*8+7] != 9 {
		t.Errorf("left quad = %v", left)
	}
	right := quadLevels(b, 0, 8)
	if right[4*8+3] != 15 {
		t.Errorf("right quad = %v", right)
	}
	var lit int
	for _, l := range append(left, right...) {
		if l != 0 {
			lit++
		}
	}
	if lit != 3 {
		t.Errorf("lit cells = %d, want 3", lit)
	}
}

func TestLevelMapMessage(t *testing.T) {
	b := grid.NewBuffer(8, 16)
	msg := levelMap("/transit", b, 0, 8)
	if msg.Address != "/transit/grid/led/level/map" {
		t.Errorf("address = %q", msg.Address)
	}
	if len(msg.Arguments) != 66 || msg.Arguments[0] != int32(0) || msg.Arguments[1] != int32(8) {
		t.Errorf("arguments = %v", msg.Arguments)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		args []interface{}
		want grid.KeyEvent
		ok   bool
	}{
		{[]interface{}{int32(3), int32(14), int32(1)}, grid.KeyEvent{Row: 3, Col: 14, State: grid.Press}, true},
		{[]interface{}{int32(0), int32(0), int32(0)}, grid.KeyEvent{State: grid.Release}, true},
		{[]interface{}{int32(0), int32(0)}, grid.KeyEvent{}, false},
		{[]interface{}{"a", int32(0), int32(1)}, grid.KeyEvent{}, false},
	}
	for _, tt := range tests {
		got, ok := parseKey(osc.NewMessage("/transit/grid/key", tt.args...))
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseKey(%v) = %+v, %v", tt.args, got, ok)
		}
	}
}

func TestPick(t *testing.T) {
	devices := []DeviceInfo{{ID: "m1", Port: 1}, {ID: "m2", Port: 2}}
	if d, ok := pick(devices, ""); !ok || d.ID != "m1" {
		t.Errorf("pick first = %+v", d)
	}
	if d, ok := pick(devices, "m2"); !ok || d.Port != 2 {
		t.Errorf("pick m2 = %+v", d)
	}
	if _, ok := pick(devices, "m3"); ok {
		t.Error("pick m3 should fail")
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.Host != DefaultHost || c.Port != DefaultPort || c.Prefix != DefaultPrefix || c.Timeout != time.Second {
		t.Errorf("defaults = %+v", c)
	}
	// rotation 0 is a valid setting, not "unset"
	if c.Rotation != 0 {
		t.Errorf("rotation = %d", c.Rotation)
	}
}

// fakeSerialosc answers as both the daemon and a single 8x16 device on one
// UDP port
type fakeSerialosc struct {
	conn net.PacketConn
	port int
	leds chan *osc.Message

	mu       sync.Mutex
	host     string
	hostPort int
}

func newFakeSerialosc(t *testing.T) *fakeSerialosc {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeSerialosc{
		conn: conn,
		port: conn.LocalAddr().(*net.UDPAddr).Port,
		leds: make(chan *osc.Message, 16),
	}
	t.Cleanup(func() { conn.Close() })
	go f.serve()
	return f
}

func (f *fakeSerialosc) serve() {
	buf := make([]byte, 65535)
	for {
		n, _, err := f.conn.ReadFrom(buf)
		if err != nil {
			return
		}
		packet, err := osc.ParsePacket(string(buf[:n]))
		if err != nil {
			continue
		}
		msg, ok := packet.(*osc.Message)
		if !ok {
			continue
		}
		switch msg.Address {
		case "/serialosc/list":
			host, port := msg.Arguments[0].(string), msg.Arguments[1].(int32)
			reply := osc.NewMessage("/serialosc/device", "m0000001", "monome 128", int32(f.port))
			osc.NewClient(host, int(port)).Send(reply)
		case "/sys/port":
			f.mu.Lock()
			f.hostPort = int(msg.Arguments[0].(int32))
			f.mu.Unlock()
		case "/sys/host":
			f.mu.Lock()
			f.host = msg.Arguments[0].(string)
			f.mu.Unlock()
		case "/sys/info":
			host, port := msg.Arguments[0].(string), msg.Arguments[1].(int32)
			osc.NewClient(host, int(port)).Send(osc.NewMessage("/sys/size", int32(8), int32(16)))
		case "/transit/grid/led/level/map", "/transit/grid/led/level/all":
			f.leds <- msg
		}
	}
}

func (f *fakeSerialosc) key(x, y, s int32) error {
	f.mu.Lock()
	host, port := f.host, f.hostPort
	f.mu.Unlock()
	return osc.NewClient(host, port).Send(osc.NewMessage("/transit/grid/key", x, y, s))
}

func (f *fakeSerialosc) nextLED(t *testing.T) *osc.Message {
	t.Helper()
	select {
	case msg := <-f.leds:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no LED message")
		return nil
	}
}

func TestDialKeysAndRender(t *testing.T) {
	f := newFakeSerialosc(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, err := Dial(ctx, Config{Host: "127.0.0.1", Port: f.port, Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer g.Close()

	if g.ID() != "m0000001" || g.Info().Type != "monome 128" {
		t.Errorf("device = %+v", g.Info())
	}
	if rows, cols := g.Size(); rows != 8 || cols != 16 {
		t.Fatalf("size = %dx%d, want 8x16", rows, cols)
	}

	if err := f.key(7, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.key(9, 0, 1); err != nil { // outside the grid
		t.Fatal(err)
	}
	if err := f.key(7, 2, 0); err != nil {
		t.Fatal(err)
	}
	for _, want := range []grid.KeyEvent{{Row: 7, Col: 2, State: grid.Press}, {Row: 7, Col: 2, State: grid.Release}} {
		select {
		case ev := <-g.Keys():
			if ev != want {
				t.Errorf("key = %+v, want %+v", ev, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("missing key %+v", want)
		}
	}

	b := grid.NewBuffer(8, 16)
	b.Set(7, 2, 9)
	if err := g.Render(b); err != nil {
		t.Fatal(err)
	}
	left, right := f.nextLED(t), f.nextLED(t)
	if left.Arguments[1] != int32(0) || right.Arguments[1] != int32(8) {
		t.Fatalf("quads = %v / %v", left.Arguments[:2], right.Arguments[:2])
	}
	if left.Arguments[2+2*8+7] != int32(9) {
		t.Errorf("lit cell = %v", left.Arguments[2+2*8+7])
	}

	// only the changed quad goes out
	b.Set(0, 15, 3)
	if err := g.Render(b); err != nil {
		t.Fatal(err)
	}
	if msg := f.nextLED(t); msg.Address != "/transit/grid/led/level/map" || msg.Arguments[1] != int32(8) {
		t.Errorf("diffed quad = %v", msg.Arguments[:2])
	}

	if err := g.Close(); err != nil {
		t.Fatal(err)
	}
	if msg := f.nextLED(t); msg.Address != "/transit/grid/led/level/all" {
		t.Errorf("close sent %q", msg.Address)
	}
	if _, ok := <-g.Keys(); ok {
		t.Error("key channel should be closed")
	}
}

func TestDialNoDevice(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	port := conn.LocalAddr().(*net.UDPAddr).Port

	_, err = Dial(context.Background(), Config{Host: "127.0.0.1", Port: port, Timeout: 50 * time.Millisecond})
	if err != ErrNoDevice {
		t.Fatalf("Dial = %v, want ErrNoDevice", err)
	}
}

func TestOpenSilentDeviceTimesOut(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	port := conn.LocalAddr().(*net.UDPAddr).Port

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err = Open(ctx, Config{Host: "127.0.0.1", Port: port, Timeout: 100 * time.Millisecond},
		DeviceInfo{ID: "m0000001", Type: "monome 128", Port: port})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Open = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Open took %v with a 100ms handshake timeout", elapsed)
	}
}
