package domain

// DeviceState is the connection state reported by `adb devices`
type DeviceState string

const (
	DeviceStateDevice       DeviceState = "device"
	DeviceStateOffline      DeviceState = "offline"
	DeviceStateUnauthorized DeviceState = "unauthorized"
	DeviceStateRecovery     DeviceState = "recovery"
)

// Device is one entry of `adb devices -l`
type Device struct {
	Serial     string            `json:"serial"`
	State      DeviceState       `json:"state"`
	Attributes map[string]string `json:"attributes,omitempty"` // product, model, device, transport_id
}

// IsOnline returns true if the device accepts commands
func (d *Device) IsOnline() bool {
	return d.State == DeviceStateDevice
}

// Model returns the model attribute, if any
func (d *Device) Model() string {
	return d.Attributes["model"]
}
