package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/ftl/gsm-sms/com"
	"github.com/ftl/gsm-sms/ctrl"
	"github.com/ftl/gsm-sms/gsm"
	"github.com/ftl/gsm-sms/pdu"
	"github.com/ftl/gsm-sms/sms"
)

const (
	dateTimeLayout = "01/02/06 15:04:05"
	readTimeout    = 10 * time.Second
)

type atModem interface {
	gsm.Requester
	AddIndication(prefix string, trailingLines int, handler func(lines []string)) error
}

type command struct {
	name        string
	usage       string
	description string
	minArgs     int
	timeout     time.Duration
	// offline commands run without a modem
	offline     bool
	run         func(ctx context.Context, modem atModem, out io.Writer, args []string) error
}

var commands = []command{
	{
		name:        "send",
		usage:       "send <number> <message>",
		description: "send a message to the given international number",
		minArgs:     2,
		timeout:     5 * time.Second,
		run:         runSend,
	},
	{
		name:        "recv",
		usage:       "recv [raw]",
		description: "list all stored messages, raw prints the PDUs",
		timeout:     10 * time.Second,
		run:         runRecv,
	},
	{
		name:        "delete",
		usage:       "delete <index>|all",
		description: "delete the stored message with the given index or all stored messages",
		minArgs:     1,
		timeout:     time.Duration(sms.MaxStorageIndex+1) * 5 * time.Second,
		run:         runDelete,
	},
	{
		name:        "status",
		usage:       "status",
		description: "show the signal quality and the service center",
		timeout:     10 * time.Second,
		run:         runStatus,
	},
	{
		name:        "watch",
		usage:       "watch",
		description: "wait for incoming messages and show them when all parts arrived",
		run:         runWatch,
	},
	{
		name:        "decode",
		usage:       "decode [pdu]",
		description: "decode the given hex PDU or the PDUs read from stdin, one per line, without a modem",
		offline:     true,
		run:         runDecode,
	},
}

func selectCommand(args []string) (command, []string, error) {
	if len(args) < 1 {
		return command{}, nil, fmt.Errorf("no command given")
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if len(args)-1 < cmd.minArgs {
			return command{}, nil, fmt.Errorf("missing arguments: %s", cmd.usage)
		}
		return cmd, args[1:], nil
	}
	return command{}, nil, fmt.Errorf("unknown command %s", args[0])
}

func runSend(ctx context.Context, modem atModem, out io.Writer, args []string) error {
	number, text := strings.TrimPrefix(args[0], "+"), args[1]
	fmt.Fprintf(out, "sending sms to +%s: \"%s\"\n", number, text)

	submit := pdu.Submit{
		Destination: number,
		Text:        text,
		Alphabet:    pdu.SelectAlphabet(text),
	}
	p, err := submit.Encode()
	if err != nil {
		return fmt.Errorf("error encoding to PDU: %s \"%s\": %w", number, text, err)
	}
	fmt.Fprintf(out, "pdu: %s\n", gsm.BinaryToHex(p))

	reference, err := sms.RequestSendMessage(ctx, modem, p)
	var modemErr *com.ModemError
	switch {
	case errors.As(err, &modemErr) && modemErr.Kind == com.MessageServiceError:
		return fmt.Errorf("sms not sent, code: %d", modemErr.Code)
	case errors.As(err, &modemErr):
		return fmt.Errorf("sms not sent, command error: %s", modemErr.Describe())
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "sms sent successfully: %d\n", reference)
	return nil
}

func runRecv(ctx context.Context, modem atModem, out io.Writer, args []string) error {
	raw := len(args) > 0 && args[0] == "raw"

	messages, err := sms.RequestMessages(ctx, modem, sms.AllMessages)
	if err != nil {
		return err
	}

	for _, stored := range messages {
		fmt.Fprintf(out, "MSG: %d\n", stored.Index)
		if raw {
			fmt.Fprintf(out, "%s\n", gsm.BinaryToHex(stored.PDU))
			continue
		}

		message, err := stored.Decode()
		if err != nil && !errors.Is(err, pdu.ErrUnsupportedCoding) {
			log.Printf("error decoding pdu %d: %v", stored.Index, err)
			continue
		}
		printMessage(out, message)
	}
	return nil
}

func printMessage(out io.Writer, message pdu.Message) {
	fmt.Fprintf(out, "From:%s\n", message.Sender)
	fmt.Fprintf(out, "Date/Time:%s\n", message.Timestamp.Local().Format(dateTimeLayout))
	if message.Multipart() {
		fmt.Fprintf(out, "SMS segment %d of %d\n", message.PartNumber, message.TotalParts)
	}
	switch message.Alphabet {
	case pdu.SevenBit, pdu.UCS2:
		fmt.Fprintf(out, "%s\n", message.Text)
	default:
		fmt.Fprintf(out, "<%s data: %s>\n", message.Alphabet, gsm.BinaryToHex(message.UserData))
	}
}

func runDelete(ctx context.Context, modem atModem, out io.Writer, args []string) error {
	var first, last int
	if args[0] == "all" {
		first, last = 0, sms.MaxStorageIndex
	} else {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid message index %s", args[0])
		}
		first, last = index, index
	}

	fmt.Fprintf(out, "delete msg from %d to %d\n", first, last)
	for i := first; i <= last; i++ {
		err := sms.RequestDeleteMessage(ctx, modem, i)
		var modemErr *com.ModemError
		switch {
		case err == nil:
			fmt.Fprintf(out, "Deleted message %d\n", i)
		case errors.As(err, &modemErr):
			fmt.Fprintf(out, "Error deleting message %d: %s\n", i, modemErr.Describe())
		default:
			return err
		}
	}
	return nil
}

func runStatus(ctx context.Context, modem atModem, out io.Writer, _ []string) error {
	quality, err := ctrl.RequestSignalQuality(ctx, modem)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "rssi=%d\nber=%d\n", quality.RSSI, quality.BER)
	if dBm, ok := quality.DBm(); ok {
		fmt.Fprintf(out, "signal=%d dBm\n", dBm)
	}
	if class, ok := quality.BitErrorRate(); ok {
		fmt.Fprintf(out, "ber class=%d\n", class)
	}

	serviceCenter, err := ctrl.RequestServiceCenter(ctx, modem)
	if err != nil {
		log.Printf("cannot read the service center: %v", err)
		return nil
	}
	fmt.Fprintf(out, "smsc=%s\n", serviceCenter)
	return nil
}

func runWatch(ctx context.Context, modem atModem, out io.Writer, _ []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return watch(ctx, modem, out)
}

func watch(ctx context.Context, modem atModem, out io.Writer) error {
	indices := make(chan int, 10)
	err := modem.AddIndication("+CMTI:", 0, func(lines []string) {
		_, index, err := sms.ParseNewMessageIndication(lines[0])
		if err != nil {
			log.Print(err)
			return
		}
		select {
		case indices <- index:
		default:
			log.Printf("dropped indication for message %d", index)
		}
	})
	if err != nil {
		return err
	}

	stack := sms.NewStack().WithMessageCallback(func(message sms.Message) {
		fmt.Fprintf(out, "%s\n", message)
	})
	defer stack.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case index := <-indices:
			requestCtx, cancel := context.WithTimeout(ctx, readTimeout)
			stored, err := sms.RequestMessage(requestCtx, modem, index)
			cancel()
			if err != nil {
				log.Printf("cannot read message %d: %v", index, err)
				continue
			}
			message, err := stored.Decode()
			if err != nil {
				log.Printf("error decoding pdu %d: %v", index, err)
				continue
			}
			err = stack.Put(index, message)
			if err != nil {
				log.Print(err)
			}
		}
	}
}

func runDecode(_ context.Context, _ atModem, out io.Writer, args []string) error {
	return decodePDUs(os.Stdin, out, args)
}

func decodePDUs(in io.Reader, out io.Writer, args []string) error {
	if len(args) > 0 {
		return decodePDU(out, strings.Join(args, ""))
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		err := decodePDU(out, line)
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

func decodePDU(out io.Writer, hexPDU string) error {
	octets, err := gsm.HexToBinary(hexPDU)
	if err != nil {
		return fmt.Errorf("invalid PDU %s: %w", hexPDU, err)
	}
	message, err := pdu.Decode(octets)
	if err != nil && !errors.Is(err, pdu.ErrUnsupportedCoding) {
		return fmt.Errorf("cannot decode PDU %s: %w", hexPDU, err)
	}
	printMessage(out, message)
	return nil
}
