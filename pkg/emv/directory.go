package emv

import (
	"fmt"
	"strings"

	"github.com/gregLibert/emv-select/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// ParseDirectoryRecord builds candidates from one record of a payment
// system directory. The record must be wrapped in a Record Template
// (tag 70) holding one or more Application Templates (tag 61). directory
// optionally carries the directory FCI's own fields, consulted for the
// Issuer Code Table Index.
//
// A malformed entry is skipped, not fatal: the terminal keeps whatever
// candidates it can still use and carries on with the rest of the
// directory.
func ParseDirectoryRecord(data []byte, directory *tlv.Fields) ([]*Candidate, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty record data")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("BER-TLV decode failed: %w", err)
	}

	if len(packets) == 0 || !strings.EqualFold(packets[0].Tag, TagRecordTemplate) {
		return nil, fmt.Errorf("missing mandatory Record Template (tag 70)")
	}

	var candidates []*Candidate
	for _, p := range packets[0].TLVs {
		if !strings.EqualFold(p.Tag, TagApplicationTemplate) {
			continue
		}
		entry, err := templateContent(p)
		if err != nil {
			continue
		}
		c, err := NewCandidateFromDirectoryEntry(entry, directory)
		if err != nil {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// templateContent re-serializes the body of a constructed TLV so it can
// be parsed as a standalone field collection.
func templateContent(p bertlv.TLV) ([]byte, error) {
	if len(p.TLVs) > 0 {
		return bertlv.Encode(p.TLVs)
	}
	return p.Value, nil
}
