// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/vibration-monitor/internal/syncutil"
)

// Transport modes.
const (
	ModeRTU = "rtu"
	ModeTCP = "tcp"
)

// Config is the bus transport config.
type Config struct {
	Mode     string // rtu | tcp
	Address  string // serial device for rtu, host:port for tcp
	BaudRate int
	DataBits int
	Parity   string // N | E | O
	StopBits int
	Timeout  time.Duration
}

// registerReader is the slice of modbus.Client the bus needs.
type registerReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

// handler is the common surface of the goburrow RTU and TCP handlers.
type handler interface {
	Connect() error
	Close() error
}

// Client is one field-bus connection implementing sensor.Bus.
// It serializes requests because it mutates the slave id per call.
type Client struct {
	mu       syncutil.Mutex
	handler  handler
	setSlave func(id uint8)
	reader   registerReader
}

// ExceptionError is a Modbus exception reply from the device.
type ExceptionError struct {
	Function  uint8
	Exception uint8
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception: fc=%d code=%d", e.Function, e.Exception)
}

// Code exposes the exception code for status reporting.
func (e *ExceptionError) Code() uint16 { return uint16(e.Exception) }

// New opens the transport. One attempt, no retries.
func New(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("modbus client: address required")
	}

	c := &Client{}

	switch cfg.Mode {
	case ModeRTU, "":
		h := modbus.NewRTUClientHandler(cfg.Address)
		h.BaudRate = cfg.BaudRate
		h.DataBits = cfg.DataBits
		h.Parity = cfg.Parity
		h.StopBits = cfg.StopBits
		h.Timeout = cfg.Timeout
		c.handler = h
		c.setSlave = func(id uint8) { h.SlaveId = id }
		c.reader = modbus.NewClient(h)

	case ModeTCP:
		h := modbus.NewTCPClientHandler(cfg.Address)
		h.Timeout = cfg.Timeout
		c.handler = h
		c.setSlave = func(id uint8) { h.SlaveId = id }
		c.reader = modbus.NewClient(h)

	default:
		return nil, fmt.Errorf("modbus client: unknown mode %q", cfg.Mode)
	}

	if err := c.handler.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: connect %s: %w", cfg.Address, err)
	}
	return c, nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadHoldingRegisters performs one FC3 read against unitID.
func (c *Client) ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	if c == nil || c.reader == nil {
		return nil, errors.New("modbus client: not connected")
	}
	if qty == 0 {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	raw, err := c.reader.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, mapError(err)
	}
	if len(raw)%2 != 0 {
		return nil, errors.New("modbus: read-registers byte count not even")
	}

	regs := unpackRegisters(raw)
	if len(regs) != int(qty) {
		return nil, fmt.Errorf("modbus: register count mismatch: got=%d want=%d", len(regs), qty)
	}
	return regs, nil
}

func mapError(err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return &ExceptionError{Function: me.FunctionCode, Exception: me.ExceptionCode}
	}
	return err
}

// Modbus register memory order (BIG-ENDIAN)
func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
