// internal/link/link_test.go
package link

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/scoreboard-hub/internal/datagram"
)

type fakeTransport struct {
	frames [][]byte
	fail   bool
}

func (f *fakeTransport) Write(frame []byte) error {
	if f.fail {
		return errors.New("write failed")
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeTransport) last(t *testing.T) *datagram.Datagram {
	t.Helper()
	require.NotEmpty(t, f.frames)
	d, err := datagram.Decode(f.frames[len(f.frames)-1])
	require.NoError(t, err)
	return d
}

// scriptSink queries node 0x01 or broadcasts, depending on next.
type scriptSink struct {
	broadcast bool
	reloads   int
	silences  int
}

func (s *scriptSink) OnReload(dt *datagram.Datagram) bool {
	s.reloads++
	if s.broadcast {
		dt.Destination = datagram.AddrBroadcast
		dt.Command = datagram.CmdSetData
	} else {
		dt.Destination = 0x01
		dt.Command = datagram.CmdGetStatus
	}
	dt.AppendUint16(0)
	return true
}

func (s *scriptSink) OnSilence() { s.silences++ }

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func busConfig() Config {
	return Config{
		Name:             "bus",
		LocalAddress:     datagram.AddrHub,
		BroadcastAddress: datagram.AddrBroadcast,
		Reload:           100 * time.Millisecond,
		Timeout:          15 * time.Millisecond,
		Privilege:        Master,
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(busConfig(), nil, &scriptSink{}, quiet())
	assert.Error(t, err)

	cfg := busConfig()
	cfg.Timeout = cfg.Reload
	_, err = New(cfg, &fakeTransport{}, &scriptSink{}, quiet())
	assert.Error(t, err)

	_, err = New(Config{LocalAddress: 1, BroadcastAddress: 0xFF}, &fakeTransport{}, nil, quiet())
	assert.NoError(t, err, "slave link needs no timing")
}

func TestTick_ReloadAndSilence(t *testing.T) {
	tr := &fakeTransport{}
	sink := &scriptSink{}
	l, err := New(busConfig(), tr, sink, quiet())
	require.NoError(t, err)
	l.Open()

	t0 := time.Unix(0, 0)
	l.Tick(t0)
	require.Len(t, tr.frames, 1)
	assert.True(t, l.Pending())
	assert.Equal(t, uint8(0x01), tr.last(t).Destination)
	assert.Equal(t, datagram.AddrHub, tr.last(t).Source)

	l.Tick(t0.Add(10 * time.Millisecond))
	assert.Equal(t, 0, sink.silences)

	l.Tick(t0.Add(15 * time.Millisecond))
	assert.Equal(t, 1, sink.silences)
	assert.False(t, l.Pending())
	assert.Equal(t, 1, sink.reloads, "reload waits for its period")

	l.Tick(t0.Add(100 * time.Millisecond))
	assert.Equal(t, 2, sink.reloads)
	assert.Equal(t, uint64(1), l.Stats().Silences)
}

func TestTick_BroadcastNeverSilent(t *testing.T) {
	tr := &fakeTransport{}
	sink := &scriptSink{broadcast: true}
	l, _ := New(busConfig(), tr, sink, quiet())
	l.Open()

	t0 := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		l.Tick(t0.Add(time.Duration(i) * 50 * time.Millisecond))
	}

	assert.False(t, l.Pending())
	assert.Equal(t, 0, sink.silences)
	assert.Len(t, tr.frames, 3) // 0, 100, 200 ms
}

func TestTick_SlaveOrClosedDoesNothing(t *testing.T) {
	tr := &fakeTransport{}
	sink := &scriptSink{}
	l, _ := New(busConfig(), tr, sink, quiet())

	l.Tick(time.Unix(0, 0))
	assert.Empty(t, tr.frames, "closed link must not reload")

	l.Open()
	l.SetPrivilege(Slave)
	l.Tick(time.Unix(1, 0))
	assert.Empty(t, tr.frames, "slave link must not reload")
}

func TestProcessPacket_ResponseClearsPending(t *testing.T) {
	tr := &fakeTransport{}
	sink := &scriptSink{}
	l, _ := New(busConfig(), tr, sink, quiet())
	l.Open()

	var got []byte
	l.Handle(datagram.CmdGetStatus, func(dt *datagram.Datagram) {
		got = dt.Payload()
	})

	t0 := time.Unix(0, 0)
	l.Tick(t0)
	require.True(t, l.Pending())

	resp := datagram.New(0x01, datagram.AddrHub, datagram.CmdGetStatus)
	resp.Append(0x00, 0x01)
	frame, _ := resp.MarshalBinary()
	l.ProcessPacket(frame)

	assert.False(t, l.Pending())
	assert.Equal(t, []byte{0x00, 0x01}, got)

	l.Tick(t0.Add(50 * time.Millisecond))
	assert.Equal(t, 0, sink.silences)
	assert.Len(t, tr.frames, 1, "master must not reply to responses")
}

func TestProcessPacket_SlaveReplies(t *testing.T) {
	tr := &fakeTransport{}
	l, _ := New(Config{
		Name:             "ble",
		LocalAddress:     datagram.AddrHub,
		BroadcastAddress: datagram.AddrBroadcast,
	}, tr, nil, quiet())
	l.Open()

	l.Handle(datagram.CmdVersion, func(dt *datagram.Datagram) {
		dt.SwapAddresses()
		dt.Flush()
		dt.Append(0xAB)
	})

	req := datagram.New(datagram.AddrService, datagram.AddrHub, datagram.CmdVersion)
	frame, _ := req.MarshalBinary()
	l.ProcessPacket(frame)

	reply := tr.last(t)
	assert.Equal(t, datagram.AddrService, reply.Destination)
	assert.Equal(t, []byte{0xAB}, reply.Payload())

	// broadcast requests are processed but not answered
	req.Destination = datagram.AddrBroadcast
	frame, _ = req.MarshalBinary()
	l.ProcessPacket(frame)
	assert.Len(t, tr.frames, 1)

	// other destinations are ignored
	req.Destination = 0x42
	frame, _ = req.MarshalBinary()
	l.ProcessPacket(frame)
	assert.Len(t, tr.frames, 1)
	assert.Equal(t, uint64(2), l.Stats().Received)
}

func TestProcessPacket_SlaveStaysQuietWithoutReply(t *testing.T) {
	tr := &fakeTransport{}
	l, _ := New(busConfig(), tr, &scriptSink{}, quiet())
	l.SetPrivilege(Slave)
	l.Open()

	var seen int
	l.Handle(datagram.CmdGetStatus, func(dt *datagram.Datagram) { seen++ })

	late := datagram.New(0x01, datagram.AddrHub, datagram.CmdGetStatus)
	late.Append(0x00, 0x01)
	frame, _ := late.MarshalBinary()
	l.ProcessPacket(frame)

	assert.Equal(t, 1, seen)
	assert.Empty(t, tr.frames)
}

func TestProcessPacket_CorruptFrameDropped(t *testing.T) {
	tr := &fakeTransport{}
	l, _ := New(Config{LocalAddress: datagram.AddrHub, BroadcastAddress: datagram.AddrBroadcast}, tr, nil, quiet())
	l.Open()

	l.ProcessPacket([]byte{datagram.StartByte, 0x01, datagram.EndByte})
	assert.Equal(t, uint64(1), l.Stats().Dropped)
	assert.Empty(t, tr.frames)
}
