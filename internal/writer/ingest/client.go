// internal/writer/ingest/client.go

// Package ingest sends mirror blocks as Raw Ingest v1 packets: one TCP
// connection per packet, a 10-byte header, then the payload, answered by
// a single status byte.
package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	magic     uint16 = 0x5249 // "RI"
	versionV1 byte   = 0x01
	headerLen        = 10

	// AreaHoldingRegisters is the only area the mirror writes.
	AreaHoldingRegisters byte = 3

	respOK       byte = 0x00
	respRejected byte = 0x01
)

var ErrRejected = errors.New("writer ingest: rejected")

const defaultTimeout = 2 * time.Second

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// EndpointClient is stateless; each write dials.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
	dial     func(network, address string, timeout time.Duration) (net.Conn, error)
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		dial:     net.DialTimeout,
	}, nil
}

func (c *EndpointClient) Close() error { return nil }

// WriteRegisters sends regs into the holding register area of unitID.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}
	return c.send(buildPacket(AreaHoldingRegisters, unitID, addr, regs))
}

func (c *EndpointClient) send(pkt []byte) error {
	conn, err := c.dial("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer ingest: dial: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("writer ingest: deadline: %w", err)
	}
	// net.Conn.Write either writes everything or returns an error.
	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("writer ingest: write: %w", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("writer ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return ErrRejected
	default:
		return fmt.Errorf("writer ingest: unknown status 0x%02x", resp[0])
	}
}

// Layout:
//
//	0-1  magic "RI"
//	2    version
//	3    area
//	4-5  unit id
//	6-7  address
//	8-9  count
//	10+  registers, big-endian
func buildPacket(area byte, unitID uint8, addr uint16, regs []uint16) []byte {
	pkt := make([]byte, headerLen+2*len(regs))

	binary.BigEndian.PutUint16(pkt[0:2], magic)
	pkt[2] = versionV1
	pkt[3] = area
	binary.BigEndian.PutUint16(pkt[4:6], uint16(unitID))
	binary.BigEndian.PutUint16(pkt[6:8], addr)
	binary.BigEndian.PutUint16(pkt[8:10], uint16(len(regs)))

	for i, r := range regs {
		binary.BigEndian.PutUint16(pkt[headerLen+2*i:], r)
	}
	return pkt
}
