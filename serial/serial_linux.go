//go:build linux

package serial

import (
	"github.com/hedhyw/Go-Serial-Detector/pkg/v1/serialdet"
)

// FindModemPortName returns the path of the first serial device that describes itself as modem.
func FindModemPortName() (string, error) {
	devices, err := serialdet.List()
	if err != nil {
		return "", err
	}

	for _, device := range devices {
		if looksLikeModem(device.Description()) {
			return device.Path(), nil
		}
	}

	return "", ErrNoModemFound
}
