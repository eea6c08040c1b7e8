package contracts

import "fmt"

// DeviceInfo identifies the tone device a sink writes to.
type DeviceInfo struct {
	Name    string // Descriptive device name, e.g. "PC Speaker".
	Path    string // Device node or port the sink was opened on.
	Bustype uint16 // Input bus type reported by the kernel (0 when unknown).
	Vendor  uint16 // Vendor id.
	Product uint16 // Product id.
	Version uint16 // Device version.
}

// String renders the identification triple the way the startup banner prints it.
func (d DeviceInfo) String() string {
	return fmt.Sprintf("%q: bustype = %d, vendor = 0x%.4x, product = 0x%.4x, version = %d",
		d.Name, d.Bustype, d.Vendor, d.Product, d.Version)
}

// Address is the sequencer address external controllers connect to.
type Address struct {
	Client int    // Sequencer client number (-1 when the backend has none).
	Port   int    // Port number within the client.
	Name   string // Backend-specific name, for backends without numeric addressing.
}

// String formats the address as client:port, or the name when no numbers exist.
func (a Address) String() string {
	if a.Client < 0 {
		return a.Name
	}
	return fmt.Sprintf("%d:%d", a.Client, a.Port)
}
