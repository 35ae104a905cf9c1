package iso7816

import "fmt"

// StatusWord represents the two-byte status (SW1-SW2) returned by the
// card. Most values are static, but the 61XX and 6CXX ranges carry a
// length in SW2 that the client acts on.
type StatusWord uint16

// Status words the selection flow branches on (ISO/IEC 7816-4).
const (
	SW_NO_ERROR             StatusWord = 0x9000
	SW_ERR_WRONG_LENGTH     StatusWord = 0x6700
	SW_ERR_FUNC_NOT_SUPP    StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND   StatusWord = 0x6A82
	SW_ERR_RECORD_NOT_FOUND StatusWord = 0x6A83
	SW_ERR_WRONG_P1P2       StatusWord = 0x6B00
	SW_ERR_INS_INVALID      StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPP     StatusWord = 0x6E00
)

// NewStatusWord creates a StatusWord from its two bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the high byte of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the low byte of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsSuccess returns true for 9000 and for 61XX (data available).
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.SW1() == 0x61
}

// Verbose returns a human-readable description of the status word.
func (sw StatusWord) Verbose() string {
	switch {
	case sw == SW_NO_ERROR:
		return "[9000] OK"
	case sw.SW1() == 0x61:
		return fmt.Sprintf("Process completed, %d bytes available", sw.SW2())
	case sw.SW1() == 0x6C:
		return fmt.Sprintf("Wrong length, correct Le is %d", sw.SW2())
	}

	switch sw {
	case SW_ERR_WRONG_LENGTH:
		return "[6700] Wrong length"
	case SW_ERR_FUNC_NOT_SUPP:
		return "[6A81] Function not supported"
	case SW_ERR_FILE_NOT_FOUND:
		return "[6A82] File or application not found"
	case SW_ERR_RECORD_NOT_FOUND:
		return "[6A83] Record not found"
	case SW_ERR_WRONG_P1P2:
		return "[6B00] Wrong parameters P1-P2"
	case SW_ERR_INS_INVALID:
		return "[6D00] Instruction not supported or invalid"
	case SW_ERR_CLA_NOT_SUPP:
		return "[6E00] Class not supported"
	}

	switch sw.SW1() {
	case 0x62:
		return fmt.Sprintf("[%04X] Warning: NV memory unchanged", uint16(sw))
	case 0x63:
		return fmt.Sprintf("[%04X] Warning: NV memory changed", uint16(sw))
	case 0x69:
		return fmt.Sprintf("[%04X] Checking error: command not allowed", uint16(sw))
	case 0x6A:
		return fmt.Sprintf("[%04X] Checking error: wrong parameters", uint16(sw))
	default:
		return fmt.Sprintf("[%04X] Unknown status", uint16(sw))
	}
}
