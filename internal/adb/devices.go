package adb

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/vburojevic/rogcat/internal/domain"
)

// Devices returns the devices known to the adb server
func (c *Client) Devices(ctx context.Context) ([]domain.Device, error) {
	path, err := c.Path()
	if err != nil {
		return nil, err
	}
	// device listing ignores the -s selector
	out, err := execOutput(ctx, path, "devices", "-l")
	if err != nil {
		return nil, &ToolError{Op: "devices", Err: err}
	}
	return ParseDevices(string(out)), nil
}

// FindDevice returns the device with the given serial
func (c *Client) FindDevice(ctx context.Context, serial string) (*domain.Device, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Serial == serial {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", serial)
}

// ParseDevices parses the output of `adb devices -l`
func ParseDevices(text string) []domain.Device {
	var devices []domain.Device
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "List of devices") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := domain.Device{
			Serial: fields[0],
			State:  domain.DeviceState(fields[1]),
		}
		for _, f := range fields[2:] {
			k, v, ok := strings.Cut(f, ":")
			if !ok {
				continue
			}
			if d.Attributes == nil {
				d.Attributes = make(map[string]string)
			}
			d.Attributes[k] = v
		}
		devices = append(devices, d)
	}
	return devices
}
