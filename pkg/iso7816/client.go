package iso7816

import "fmt"

// Transmitter abstracts the physical card connection.
// *scard.Card satisfies it directly.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client drives a card over a Transmitter and absorbs the two T=0
// transport behaviours that would otherwise leak to the caller:
//
//   - 61XX: XX response bytes are waiting; fetch them with GET RESPONSE.
//   - 6CXX: the expected length was wrong; re-send with Le = XX.
type Client struct {
	Card Transmitter
}

// NewClient creates a Client over the given connection.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Send transmits the command and returns the final response, with any
// GET RESPONSE payload folded in.
func (c *Client) Send(cmd *CommandAPDU) (*ResponseAPDU, error) {
	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("transmission error: %w", err)
	}

	resp, err := ParseResponseAPDU(rawResp)
	if err != nil {
		return nil, err
	}

	switch resp.Status.SW1() {
	case 0x61:
		// GET RESPONSE runs on the same logical channel as the command.
		getResp := &CommandAPDU{
			Cla: cmd.Cla,
			Ins: INS_GET_RESPONSE,
			Ne:  int(resp.Status.SW2()),
		}
		sub, err := c.Send(getResp)
		if err != nil {
			return resp, err
		}
		sub.Data = append(append([]byte{}, resp.Data...), sub.Data...)
		return sub, nil

	case 0x6C:
		// Clone the command to retry with the corrected Le.
		retry := *cmd
		retry.Ne = int(resp.Status.SW2())
		return c.Send(&retry)
	}

	return resp, nil
}
