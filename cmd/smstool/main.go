package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ftl/gsm-sms/com"
	"github.com/ftl/gsm-sms/ctrl"
	"github.com/ftl/gsm-sms/serial"
)

const (
	autoDevice  = "auto"
	initTimeout = 5 * time.Second
)

func main() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	var (
		device    string
		baudRate  uint
		traceFile string
	)

	flag.StringVar(&device, "D", "/dev/ttyUSB1", "Serial device of the modem, auto selects the first device that looks like a modem")
	flag.UintVar(&baudRate, "b", serial.DefaultBaudRate, "Baud rate of the serial device")
	flag.StringVar(&traceFile, "trace", "", "Write the complete communication with the modem to this file")
	flag.Usage = usage

	flag.Parse()

	cmd, args, err := selectCommand(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}

	if cmd.offline {
		err = cmd.run(context.Background(), nil, os.Stdout, args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	modem, err := openModem(device, baudRate, traceFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	err = initModem(ctx, modem)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No response from modem.")
		log.Println(err)
		os.Exit(2)
	}

	ctx = context.Background()
	if cmd.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cmd.timeout)
		defer cancel()
	}
	err = cmd.run(ctx, modem, os.Stdout, args)
	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(os.Stderr, "No response from modem.")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [options] <command>\n\nCommands:\n", os.Args[0])
	for _, cmd := range commands {
		fmt.Fprintf(out, "  %-28s %s\n", cmd.usage, cmd.description)
	}
	fmt.Fprintf(out, "\nOptions:\n")
	flag.PrintDefaults()
}

func openModem(device string, baudRate uint, traceFile string) (*com.COM, error) {
	if device == autoDevice {
		portName, err := serial.FindModemPortName()
		if err != nil {
			return nil, err
		}
		log.Printf("using modem at %s", portName)
		device = portName
	}

	if traceFile == "" {
		return serial.Open(device, baudRate)
	}

	tracer, err := os.Create(traceFile)
	if err != nil {
		return nil, fmt.Errorf("cannot create trace file: %w", err)
	}
	return serial.OpenWithTrace(device, baudRate, tracer)
}

func initModem(ctx context.Context, modem *com.COM) error {
	err := modem.Sync(ctx)
	if err != nil {
		return err
	}
	return modem.ATs(ctx,
		ctrl.EchoOff,
		ctrl.NumericErrors,
		ctrl.SetMessageFormat(ctrl.PDU),
	)
}
