// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/scoreboard-hub/internal/config"
	wmodbus "github.com/tamzrod/scoreboard-hub/internal/writer/modbus"
)

// BuildPlan converts the mirror config into a Plan.
// Assumes config has already passed validation.
func BuildPlan(c cfg.StatusMirrorConfig, hubName string) (Plan, error) {
	if c.Endpoint == "" {
		return Plan{}, errors.New("writer: status_mirror.endpoint required")
	}

	name := c.DeviceName
	if name == "" {
		name = hubName
	}

	return Plan{
		Endpoint:   c.Endpoint,
		UnitID:     c.UnitID,
		BaseSlot:   c.BaseSlot,
		DeviceName: name,
	}, nil
}

// Build creates the Modbus client and the status writer for the mirror.
func Build(c cfg.StatusMirrorConfig, hubName string) (StatusWriter, func() error, error) {
	plan, err := BuildPlan(c, hubName)
	if err != nil {
		return nil, nil, err
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw, err := NewStatusWriter(plan, cli)
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}

	return sw, cli.Close, nil
}
