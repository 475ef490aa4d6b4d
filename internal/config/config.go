// internal/config/config.go
package config

type Config struct {
	Hub HubConfig `yaml:"hub"`
}

type HubConfig struct {
	Name string `yaml:"name"`

	Bus     BusConfig     `yaml:"bus"`
	BLE     BLEConfig     `yaml:"ble"`
	Battery BatteryConfig `yaml:"battery"`
	Gate    GateConfig    `yaml:"gate"`

	// Heartbeat LED directory under /sys/class/leds (optional)
	HeartbeatLED string `yaml:"heartbeat_led"`

	// Bluetooth module connection input (optional)
	ConnectedPath      string `yaml:"connected_path"`
	ConnectedActiveLow bool   `yaml:"connected_active_low"`

	// Address selection: three inputs (bit 2..0) or a fixed value
	Settings      *uint8   `yaml:"settings"`
	SettingsPaths []string `yaml:"settings_paths"`

	StatusMirror *StatusMirrorConfig `yaml:"status_mirror"`
	Log          LogConfig           `yaml:"log"`
}

// ---- BUS (RS-485, polling engine side) ----

type BusConfig struct {
	Port         string `yaml:"port"`
	BaudRate     int    `yaml:"baud_rate"`
	RS485        *bool  `yaml:"rs485"`
	ReloadMs     int    `yaml:"reload_ms"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	LocalAddress *uint8 `yaml:"local_address"`

	// Consecutive silences before a node is declared offline
	FaultsAllowed int `yaml:"faults_allowed"`
}

// ---- BLE (Bluetooth UART, always slave) ----

type BLEConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ---- BATTERY ----

type BatteryConfig struct {
	ADCPath  string  `yaml:"adc_path"`
	SampleMs int     `yaml:"sample_ms"`
	Window   int     `yaml:"window"`
	Factor   float64 `yaml:"factor"`

	Thresholds ThresholdConfig `yaml:"thresholds"`

	ChargerPath      string `yaml:"charger_path"`
	ChargerActiveLow bool   `yaml:"charger_active_low"`
	IndicatorLED     string `yaml:"indicator_led"`
}

type ThresholdConfig struct {
	Upper    float64 `yaml:"upper"`
	Lower    float64 `yaml:"lower"`
	Critical float64 `yaml:"critical"`
	Charging float64 `yaml:"charging"`
}

// ---- GATE (Blocked -> MasterActive checks) ----

type GateConfig struct {
	StartupDelayMs int `yaml:"startup_delay_ms"`
	RecheckMs      int `yaml:"recheck_ms"`
}

// ---- STATUS MIRROR (Modbus TCP, optional) ----

type StatusMirrorConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot"`
	IntervalMs int    `yaml:"interval_ms"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	DeviceName string `yaml:"device_name"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}
