package emv

import "bytes"

// MatchMode states how a terminal-configured AID is compared against a
// candidate's identifier.
type MatchMode byte

const (
	// MatchExact requires the configured AID and the candidate AID to be
	// identical, length included.
	MatchExact MatchMode = iota

	// MatchPartial accepts any candidate whose AID starts with the
	// configured bytes, whatever follows.
	MatchPartial
)

// SupportedApplication is one entry of the terminal's supported-AID table.
type SupportedApplication struct {
	AID  []byte
	Mode MatchMode
}

// IsSupported reports whether the candidate matches an entry of the
// terminal's supported-AID table. Entries are tried in order and the
// first match wins; a candidate without an identifier matches nothing.
func (c *Candidate) IsSupported(supported []SupportedApplication) bool {
	if c == nil || len(c.aid) == 0 {
		return false
	}
	for _, s := range supported {
		switch s.Mode {
		case MatchExact:
			if bytes.Equal(s.AID, c.aid) {
				return true
			}
		case MatchPartial:
			if bytes.HasPrefix(c.aid, s.AID) {
				return true
			}
		}
	}
	return false
}
