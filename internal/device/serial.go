// internal/device/serial.go
package device

import (
	"fmt"
	"strconv"
	"strings"
)

// Serial config register layout: bits 0..4 baud code, bits 6..7 parity.
const (
	serialBaudMask   uint16 = 0x1f
	serialParityEven uint16 = 0x80
	serialParityOdd  uint16 = 0xc0
)

var baudCodes = map[int]uint16{
	1200:   3,
	2400:   4,
	4800:   5,
	9600:   6,
	19200:  7,
	38400:  8,
	57600:  9,
	115200: 10,
}

// framing names indexed by bits 6..7 of the serial config register.
var framings = [4]string{"N,1", "N,2", "E,1", "O,1"}

// SerialSetting is a decoded serial config register.
type SerialSetting struct {
	BaudRate int    // 0 when the code is unknown
	Framing  string // parity and stop bits, e.g. "E,1"
}

func (s SerialSetting) String() string {
	baud := "?"
	if s.BaudRate > 0 {
		baud = strconv.Itoa(s.BaudRate)
	}
	return baud + "," + s.Framing
}

// ParseSerial converts "BAUD[,N|O|E]" into a serial config register value.
func ParseSerial(s string) (uint16, error) {
	baudStr, parity, hasParity := strings.Cut(strings.TrimSpace(s), ",")

	baud, err := strconv.Atoi(baudStr)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable baud rate %q", ErrParameter, baudStr)
	}
	code, ok := baudCodes[baud]
	if !ok {
		return 0, fmt.Errorf("%w: invalid baud rate %d", ErrParameter, baud)
	}

	if !hasParity {
		return code, nil
	}

	switch strings.ToUpper(parity) {
	case "N":
	case "O":
		code |= serialParityOdd
	case "E":
		code |= serialParityEven
	default:
		return 0, fmt.Errorf("%w: parity must be 'O', 'E' or 'N'", ErrParameter)
	}
	return code, nil
}

// DecodeSerial converts a serial config register value into a setting.
func DecodeSerial(v uint16) SerialSetting {
	var s SerialSetting
	code := v & serialBaudMask
	for baud, c := range baudCodes {
		if c == code {
			s.BaudRate = baud
			break
		}
	}
	s.Framing = framings[(v>>6)&0x03]
	return s
}
