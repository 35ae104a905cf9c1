// Package iso7816 implements the slice of ISO/IEC 7816-4 that EMV
// application selection needs: short-length APDU encoding, status word
// analysis, the SELECT and READ RECORD commands, and a client that hides
// the T=0 transport quirks (61XX / 6CXX).
package iso7816

import (
	"bytes"
	"fmt"
)

// Instruction codes used by the selection flow.
const (
	INS_SELECT       = 0xA4
	INS_READ_RECORD  = 0xB2
	INS_GET_RESPONSE = 0xC0
)

const (
	// MaxShortLc is the maximum data length encodable in a short APDU.
	MaxShortLc = 255

	// MaxShortLe is the maximum expected response length in a short APDU.
	// 0x00 on the wire encodes 256.
	MaxShortLe = 256
)

// CommandAPDU represents a command sent to the card. Only short-length
// encoding is supported: selection commands never carry more than an AID.
type CommandAPDU struct {
	Cla, Ins, P1, P2 byte
	Data             []byte
	Ne               int // expected response length, 0 means none
}

// Bytes encodes the command (C-APDU). The four ISO 7816-3 cases are
// derived from the presence of Data and Ne.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	if len(c.Data) > MaxShortLc {
		return nil, fmt.Errorf("data too long for a short APDU: %d bytes", len(c.Data))
	}
	if c.Ne < 0 || c.Ne > MaxShortLe {
		return nil, fmt.Errorf("expected length out of range: %d", c.Ne)
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(c.Cla)
	buf.WriteByte(c.Ins)
	buf.WriteByte(c.P1)
	buf.WriteByte(c.P2)

	if len(c.Data) > 0 {
		buf.WriteByte(byte(len(c.Data)))
		buf.Write(c.Data)
	}

	if c.Ne > 0 {
		if c.Ne == MaxShortLe {
			buf.WriteByte(0x00)
		} else {
			buf.WriteByte(byte(c.Ne))
		}
	}

	return buf.Bytes(), nil
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("INS: %02X | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Ins, c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU parses raw bytes received from the card.
// The input must contain at least the two status bytes.
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	split := len(raw) - 2
	return &ResponseAPDU{
		Data:   raw[:split],
		Status: NewStatusWord(raw[split], raw[split+1]),
	}, nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}
