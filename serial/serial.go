package serial

import (
	"errors"
	"io"

	"github.com/jacobsa/go-serial/serial"

	"github.com/ftl/gsm-sms/com"
)

// DefaultBaudRate works with most USB GSM modems.
const DefaultBaudRate = 115200

// ErrNoModemFound indicates that no serial device looks like a GSM modem.
var ErrNoModemFound = errors.New("no GSM modem found")

// Open opens the given serial port with 8N1 and the given baud rate.
func Open(portName string, baudRate uint) (*com.COM, error) {
	device, err := openSerial(portName, baudRate)
	if err != nil {
		return nil, err
	}

	return com.New(device), nil
}

// OpenWithTrace opens the given serial port and traces all communication to the given writer.
func OpenWithTrace(portName string, baudRate uint, tracer io.Writer) (*com.COM, error) {
	device, err := openSerial(portName, baudRate)
	if err != nil {
		return nil, err
	}

	return com.NewWithTrace(device, tracer), nil
}

func openSerial(portName string, baudRate uint) (io.ReadWriteCloser, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	return serial.Open(portOptions(portName, baudRate))
}

func portOptions(portName string, baudRate uint) serial.OpenOptions {
	return serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		RTSCTSFlowControl:     false,
		MinimumReadSize:       1,
		InterCharacterTimeout: 100,
	}
}
