// internal/wireless/handlers.go
package wireless

import (
	"log/slog"

	"github.com/tamzrod/scoreboard-hub/internal/datagram"
	"github.com/tamzrod/scoreboard-hub/internal/link"
	"github.com/tamzrod/scoreboard-hub/internal/score"
	"github.com/tamzrod/scoreboard-hub/internal/status"
)

// Info identifies the hub firmware to the mobile app.
type Info struct {
	ProductID      uint32
	PublishingDate [4]byte // day, month, century, year
	Firmware       [4]byte // major, minor, patch, build
}

// Version is the released hub identity.
var Version = Info{
	ProductID:      0x00000002,
	PublishingDate: [4]byte{11, 12, 20, 23},
	Firmware:       [4]byte{1, 0, 0, 4},
}

// Voltmeter reports the filtered battery voltage.
type Voltmeter interface {
	Voltage() float64
}

// Connection reports whether the Bluetooth module has a peer.
type Connection interface {
	Connected() bool
}

// Handlers serves the Bluetooth command set.
// They read and write the same state as the bus engine and run on the
// same dispatch loop.
type Handlers struct {
	info     Info
	status   *status.Aggregator
	params   *score.Params
	battery  Voltmeter
	conn     Connection
	settings uint8
	log      *slog.Logger
}

// New creates the command handlers. conn may be nil.
func New(info Info, agg *status.Aggregator, params *score.Params, battery Voltmeter, conn Connection, settings uint8, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		info:     info,
		status:   agg,
		params:   params,
		battery:  battery,
		conn:     conn,
		settings: settings,
		log:      log,
	}
}

// Registrar is the command dispatch of a link.
type Registrar interface {
	Handle(cmd uint8, h link.HandlerFunc)
}

// Register binds the command set to a link.
func (h *Handlers) Register(r Registrar) {
	r.Handle(datagram.CmdVersion, h.GetVersion)
	r.Handle(datagram.CmdGetStatus, h.GetStatus)
	r.Handle(datagram.CmdSetData, h.SetData)
}

// GetVersion replies with product ID, publishing date and firmware version.
func (h *Handlers) GetVersion(dt *datagram.Datagram) {
	dt.SwapAddresses()
	dt.Flush()
	dt.AppendUint32(h.info.ProductID)
	dt.Append(h.info.PublishingDate[:]...)
	dt.Append(h.info.Firmware[:]...)
}

// GetStatus replies with the status response.
func (h *Handlers) GetStatus(dt *datagram.Datagram) {
	dt.SwapAddresses()
	dt.Flush()
	h.appendStatus(dt)
}

// SetData stores new scoreboard content and replies with the status
// response. Short payloads leave the content untouched.
func (h *Handlers) SetData(dt *datagram.Datagram) {
	if dt.Length() >= score.Size {
		buf, _ := dt.ExtractBytes(score.Size)
		var connected byte
		if h.conn != nil && h.conn.Connected() {
			connected = score.FlagConnected
		}
		h.params.Set(buf, connected)
	} else {
		h.log.Debug("set data ignored: short payload", "len", dt.Length())
	}

	dt.SwapAddresses()
	dt.Flush()
	h.appendStatus(dt)
}

// appendStatus writes bitmap (u16), voltage (f32) and settings (u8).
func (h *Handlers) appendStatus(dt *datagram.Datagram) {
	dt.AppendUint16(uint16(h.status.Get()))
	var v float64
	if h.battery != nil {
		v = h.battery.Voltage()
	}
	dt.AppendFloat32(float32(v))
	dt.Append(h.settings)
}
