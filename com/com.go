package com

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ftl/gsm-sms/gsm"
)

const (
	readBufferSize        = 1024
	atSendingQueueTimeout = 500 * time.Millisecond
	syncRetryInterval     = 200 * time.Millisecond
)

// Prompt is the line the modem sends when it waits for the PDU of AT+CMGS.
const Prompt = ">"

// ErrQueueTimeout indicates that the previous command did not complete in time to send the next one.
var ErrQueueTimeout = errors.New("AT sending queue timeout")

// NewWithTrace creates a new COM instance that traces all communications to a second writer.
func NewWithTrace(device io.ReadWriter, tracer io.Writer) *COM {
	result := New(device)
	result.tracer = tracer
	return result
}

// New creates a new COM instance using the given io.ReadWriter to communicate with the modem.
func New(device io.ReadWriter) *COM {
	lines := readLoop(device)
	commands := make(chan command)
	result := &COM{
		commands:    commands,
		closed:      make(chan struct{}),
		indications: make(map[string]indicationConfig),
	}

	go func() {
		result.trace("****\n* SESSION START\n****\n")
		defer result.trace("****\n* SESSION END\n****\n")
		defer close(result.closed)

		var commandCancelled <-chan struct{}
		var activeCommand *command
		var activeIndication *indication
		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()

		for {
			select {
			case line, valid := <-lines:
				if !valid {
					return
				}
				result.tracef("rx:  %s\nhex: %X\n--\n", line, line)

				switch {
				case activeIndication != nil:
					activeIndication.AddLine(line)
					if activeIndication.Complete() {
						activeIndication = nil
					}
				case activeCommand != nil:
					if line == Prompt && activeCommand.payload != "" {
						result.send(device, activeCommand.payload)
						activeCommand.payload = ""
						break
					}
					var matched bool
					activeIndication, matched = result.newIndication(line)
					if matched {
						break
					}
					activeCommand.AddLine(line)
					if activeCommand.Complete() {
						commandCancelled = nil
						activeCommand = nil
					}
				default:
					activeIndication, _ = result.newIndication(line)
				}
			case <-commandCancelled:
				commandCancelled = nil
				activeCommand = nil
			case <-tick.C:
			}
			if activeCommand == nil {
				select {
				case cmd := <-commands:
					if len(cmd.request) == 0 {
						break
					}
					head, payload := splitRequest(cmd.request)
					cmd.payload = payload
					result.send(device, head)
					commandCancelled = cmd.cancelled
					activeCommand = &cmd
				default:
				}
			}
		}
	}()

	return result
}

// COM allows to communicate with a GSM modem using AT commands.
type COM struct {
	commands chan<- command
	closed   chan struct{}
	tracer   io.Writer

	indicationsLock sync.RWMutex
	indications     map[string]indicationConfig
}

func readLoop(r io.Reader) <-chan string {
	lines := make(chan string, 1)
	go func() {
		buf := make([]byte, readBufferSize)
		currentLine := make([]byte, 0, readBufferSize)
		for {
			n, err := r.Read(buf)
			if err != nil {
				if len(currentLine) > 0 {
					lines <- string(currentLine)
				}
				close(lines)
				return
			}

			for _, b := range buf[0:n] {
				switch {
				case b == '\n':
					if len(currentLine) == 0 {
						continue
					}
					lines <- string(currentLine)
					currentLine = currentLine[:0]
				case b <= ' ' && len(currentLine) == 0:
					continue
				case b < ' ':
					continue
				case b == Prompt[0] && len(currentLine) == 0:
					// the prompt is not terminated by a line break
					lines <- Prompt
				default:
					currentLine = append(currentLine, b)
				}
			}
		}
	}()
	return lines
}

// splitRequest separates the PDU from a two-phase request like AT+CMGS=<length>\r\n<PDU>^Z.
func splitRequest(request string) (string, string) {
	if !strings.HasSuffix(request, gsm.CtrlZ) {
		return request, ""
	}
	head, payload, found := strings.Cut(request, gsm.CRLF)
	if !found {
		return request, ""
	}
	return head, payload
}

func (c *COM) send(device io.Writer, request string) {
	txbytes := make([]byte, 0, len(request)+2)
	txbytes = append(txbytes, []byte(request)...)
	lastbyte := txbytes[len(txbytes)-1]
	if (lastbyte != 0x1a) && (lastbyte != 0x1b) {
		txbytes = append(txbytes, 0x0d, 0x0a)
	}
	c.tracef("tx:  %s\nhex: %X\n--\n", txbytes, txbytes)
	_, err := device.Write(txbytes)
	if err != nil {
		c.tracef("tx failed: %v\n--\n", err)
	}
}

func (c *COM) Closed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// AddIndication registers a handler for unsolicited result codes with the given prefix, e.g. +CMTI:.
// The handler receives the line with the prefix and the given number of trailing lines.
func (c *COM) AddIndication(prefix string, trailingLines int, handler func(lines []string)) error {
	config := indicationConfig{
		prefix:        strings.ToUpper(prefix),
		trailingLines: trailingLines,
		handler:       handler,
	}
	c.indicationsLock.Lock()
	defer c.indicationsLock.Unlock()
	c.indications[config.prefix] = config
	return nil
}

// newIndication reports if the line starts a registered indication. The returned indication is nil
// if the line already was complete and was handed to the handler.
func (c *COM) newIndication(line string) (*indication, bool) {
	c.indicationsLock.RLock()
	defer c.indicationsLock.RUnlock()
	for _, config := range c.indications {
		result, matched := config.NewIfMatches(line)
		if matched {
			return result, true
		}
	}
	return nil, false
}

// Sync sends AT until the modem answers with OK. This clears any garbage the modem may have
// in its input buffer.
func (c *COM) Sync(ctx context.Context) error {
	for {
		_, err := c.AT(ctx, "AT")
		if err == nil {
			return nil
		}
		var modemErr *ModemError
		if !errors.As(err, &modemErr) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(syncRetryInterval):
		}
	}
}

// AT sends the given request and waits for the final result code. The response lines are returned
// without the final result code.
func (c *COM) AT(ctx context.Context, request string) ([]string, error) {
	cmd := command{
		request:   request,
		response:  make(chan []string, 1),
		err:       make(chan error, 1),
		cancelled: ctx.Done(),
		completed: make(chan struct{}),
	}

	select {
	case c.commands <- cmd:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(atSendingQueueTimeout):
		return nil, ErrQueueTimeout
	}

	select {
	case response := <-cmd.response:
		return response, nil
	case err := <-cmd.err:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ATs sends the given requests one after the other. It stops at the first failing request.
func (c *COM) ATs(ctx context.Context, requests ...string) error {
	for _, request := range requests {
		_, err := c.AT(ctx, request)
		if err != nil {
			return fmt.Errorf("%s failed: %w", strings.TrimSpace(request), err)
		}
	}
	return nil
}

// Request implements gsm.Requester.
func (c *COM) Request(ctx context.Context, request string) ([]string, error) {
	return c.AT(ctx, request)
}

func (c *COM) trace(args ...interface{}) {
	if c.tracer == nil {
		return
	}
	fmt.Fprint(c.tracer, args...)
}

func (c *COM) tracef(format string, args ...interface{}) {
	if c.tracer == nil {
		return
	}
	fmt.Fprintf(c.tracer, format, args...)
}

type indicationConfig struct {
	prefix        string
	trailingLines int
	handler       func(lines []string)
}

func (c indicationConfig) NewIfMatches(line string) (*indication, bool) {
	if !strings.HasPrefix(strings.ToUpper(line), c.prefix) {
		return nil, false
	}
	result := &indication{
		config: c,
		lines:  []string{line},
	}
	if result.Complete() {
		c.handler([]string{line})
		return nil, true
	}

	return result, true
}

type indication struct {
	config indicationConfig
	lines  []string
}

func (ind *indication) AddLine(line string) {
	if ind.Complete() {
		return
	}

	ind.lines = append(ind.lines, line)
	if ind.Complete() {
		go func() {
			ind.config.handler(ind.lines)
		}()
	}
}

func (ind *indication) Complete() bool {
	return len(ind.lines) >= ind.config.trailingLines+1
}

type command struct {
	lines     []string
	request   string
	payload   string
	response  chan []string
	err       chan error
	cancelled <-chan struct{}
	completed chan struct{}
}

func (c *command) AddLine(line string) {
	select {
	case <-c.cancelled:
		return
	case <-c.completed:
		return
	default:
	}

	if strings.EqualFold(strings.TrimSpace(line), "OK") {
		c.response <- c.lines
		close(c.completed)
		return
	}
	if err := parseFinalError(line); err != nil {
		c.err <- err
		close(c.completed)
		return
	}
	c.lines = append(c.lines, line)
}

func (c *command) Complete() bool {
	select {
	case <-c.cancelled:
		return true
	case <-c.completed:
		return true
	default:
		return false
	}
}
