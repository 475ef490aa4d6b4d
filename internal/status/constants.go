// internal/status/constants.go
package status

// StatusBitmap layout.
// Low bits carry node presence, the top three bits carry battery state.
// The layout is shared with the display nodes and the mobile app and
// MUST NOT be configurable.

// FlagCharging is set while a charger is plugged in.
const FlagCharging Bitmap = 0x8000

// FlagCharged is set once the battery is full while charging.
const FlagCharged Bitmap = 0x4000

// FlagBatteryLow is set below the critical voltage.
// Displays switch their servo drivers off while it is set.
const FlagBatteryLow Bitmap = 0x2000

// MaxPresenceBits is the number of low bits available for nodes.
const MaxPresenceBits = 13

const presenceMask Bitmap = 1<<MaxPresenceBits - 1

// ---- MIRROR BLOCK GEOMETRY ----
// Hub status block exported over Modbus, one uint16 register per slot.

// SlotsPerBlock is the fixed number of registers in a hub status block.
const SlotsPerBlock = 32

// SlotBitmap holds the raw StatusBitmap.
const SlotBitmap = 0

// SlotBatteryCentivolts holds the filtered battery voltage in 10 mV units.
const SlotBatteryCentivolts = 1

// SlotSettings holds the address-selection value.
const SlotSettings = 2

// SlotEngineState holds the polling engine state code.
const SlotEngineState = 3

// SlotOfflineNodes holds the number of nodes without a presence bit.
const SlotOfflineNodes = 4

// SlotFaultStart is the first of MaxPresenceBits fault counter slots.
const SlotFaultStart = 5

// SlotFaultEnd is the last fault counter slot (inclusive).
const SlotFaultEnd = SlotFaultStart + MaxPresenceBits - 1

// Slots 18–23 are reserved.
const SlotReservedStart = 18
const SlotReservedEnd = 23

// SlotDeviceNameStart is the first slot used for the hub name.
// The name always sits at the END of the block.
const SlotDeviceNameStart = 24

// SlotDeviceNameSlots is the number of slots reserved for the name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last name slot (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// DeviceNameMaxChars is the maximum number of ASCII characters stored.
const DeviceNameMaxChars = 16

// ---- ENGINE STATE CODES ----

// EngineUnknown is the boot state before the first gate check.
const EngineUnknown uint16 = 0

// EngineBlocked means polling is suspended (battery low or not yet started).
const EngineBlocked uint16 = 1

// EngineMasterActive means the hub owns the bus and polls nodes.
const EngineMasterActive uint16 = 2
