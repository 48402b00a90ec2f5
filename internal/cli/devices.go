package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/rogcat/internal/domain"
	"github.com/vburojevic/rogcat/internal/output"
)

// DevicesCmd lists attached devices
type DevicesCmd struct {
	OnlineOnly bool `help:"Only show devices that accept commands"`
}

type deviceOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	domain.Device
}

// Run executes the devices command
func (c *DevicesCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	devices, err := globals.Client().Devices(ctx)
	if err != nil {
		return outputErrorCommon(globals, "DEVICES_FAILED", err.Error(), hintForTooling(err))
	}
	if c.OnlineOnly {
		online := devices[:0]
		for _, d := range devices {
			if d.IsOnline() {
				online = append(online, d)
			}
		}
		devices = online
	}

	if globals.JSON() {
		emitter := output.NewEmitter(globals.Stdout)
		for _, d := range devices {
			if err := emitter.Raw(&deviceOutput{Type: "device", SchemaVersion: output.SchemaVersion, Device: d}); err != nil {
				return err
			}
		}
		return nil
	}
	return c.outputTable(globals, devices)
}

func (c *DevicesCmd) outputTable(globals *Globals, devices []domain.Device) error {
	if len(devices) == 0 {
		fmt.Fprintln(globals.Stdout, "No devices attached")
		return nil
	}

	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("SERIAL", "STATE", "MODEL", "PRODUCT", "TRANSPORT")
	for _, d := range devices {
		if err := table.Append([]string{
			d.Serial,
			string(d.State),
			d.Model(),
			d.Attributes["product"],
			d.Attributes["transport_id"],
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	online := 0
	for _, d := range devices {
		if d.IsOnline() {
			online++
		}
	}
	fmt.Fprintf(globals.Stdout, "\n%d device(s), %d online\n", len(devices), online)
	return nil
}
