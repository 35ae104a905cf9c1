package emv

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gregLibert/emv-select/pkg/bits"
	"github.com/gregLibert/emv-select/pkg/charset"
	"github.com/gregLibert/emv-select/pkg/tlv"
)

const (
	// maxNameBytes caps the raw Application Label / Preferred Name input,
	// per their Book 1 field definitions.
	maxNameBytes = 16

	// maxDisplayNameRunes caps the derived display name. The hex fallback
	// of a 16-byte AID needs all 32 characters.
	maxDisplayNameRunes = 32
)

var (
	// ErrMissingAID is returned when a candidate carries no DF name.
	ErrMissingAID = errors.New("emv: mandatory application identifier missing")

	// ErrStillLinked is returned by Release while the candidate is a list
	// member: the list owns it until it is popped or removed.
	ErrStillLinked = errors.New("emv: candidate is still linked into a list")
)

// Candidate is one application discovered during selection, built from a
// payment system directory entry or from the FCI of a direct SELECT.
// Everything is derived once at construction and read-only afterwards.
type Candidate struct {
	fields *tlv.Fields

	// aid aliases the value stored in fields and shares its lifetime.
	aid []byte

	name     string
	priority byte
	confirm  bool

	next   *Candidate
	linked bool
}

// NewCandidateFromDirectoryEntry builds a candidate from the content of an
// Application Template (tag 61) read out of a payment system directory.
// The caller passes the template content without the outer tag and length.
// directory optionally carries fields from the directory's own FCI; when
// supplied, the Issuer Code Table Index is resolved from there.
func NewCandidateFromDirectoryEntry(entry []byte, directory *tlv.Fields) (*Candidate, error) {
	fields, err := tlv.ParseFields(entry)
	if err != nil {
		return nil, fmt.Errorf("directory entry: %w", err)
	}
	return newCandidate(fields, TagAID, directory)
}

// NewCandidateFromFCI builds a candidate from a complete FCI response,
// including the outer FCI Template (tag 6F) wrapper.
func NewCandidateFromFCI(data []byte) (*Candidate, error) {
	fields, err := tlv.ParseTemplate(data, TagFCITemplate)
	if err != nil {
		return nil, fmt.Errorf("FCI: %w", err)
	}
	return newCandidate(fields, TagDFName, nil)
}

func newCandidate(fields *tlv.Fields, aidTag string, directory *tlv.Fields) (*Candidate, error) {
	aid, ok := fields.Find(aidTag)
	if !ok || len(aid) == 0 {
		return nil, ErrMissingAID
	}

	c := &Candidate{fields: fields, aid: aid}
	c.name = deriveDisplayName(fields, directory, aid)

	// Book 1, 12.2.3: the low nibble ranks the application, bit 8 demands
	// cardholder confirmation. A missing or empty indicator is no error.
	if v, ok := fields.Find(TagPriorityIndicator); ok && len(v) > 0 {
		c.priority = bits.GetRange(v[0], 4, 1)
		c.confirm = bits.IsSet(v[0], 8)
	}

	return c, nil
}

// deriveDisplayName picks the candidate's display name: the Application
// Preferred Name when a usable code table is announced and the name
// decodes cleanly, else the Application Label, else the hex rendition of
// the AID. The label branch is deliberately lenient: the field is
// mandatory per Book 1, but a terminal must proceed when it is malformed.
func deriveDisplayName(fields, directory *tlv.Fields, aid []byte) string {
	if page, ok := lookupCodeTable(fields, directory); ok {
		if raw, ok := fields.Find(TagPreferredName); ok && len(raw) > 0 {
			if len(raw) > maxNameBytes {
				raw = raw[:maxNameBytes]
			}
			if name, err := charset.Decode(page, tlv.SanitizePrintable(raw)); err == nil && name != "" {
				return clipRunes(name, maxDisplayNameRunes)
			}
		}
	}

	if raw, ok := fields.Find(TagApplicationLabel); ok {
		if len(raw) > maxNameBytes {
			raw = raw[:maxNameBytes]
		}
		return tlv.SanitizeAlphanumeric(raw)
	}

	return clipRunes(strings.ToUpper(hex.EncodeToString(aid)), maxDisplayNameRunes)
}

// lookupCodeTable resolves the Issuer Code Table Index. It is a property
// of the directory's FCI, so directory-level fields take precedence when
// supplied. The index must be a single byte naming a supported page.
func lookupCodeTable(fields, directory *tlv.Fields) (byte, bool) {
	src := fields
	if directory != nil {
		src = directory
	}
	v, ok := src.Find(TagIssuerCodeTableIndex)
	if !ok || len(v) != 1 {
		return 0, false
	}
	return charset.FromTableIndex(v[0])
}

// clipRunes truncates s to at most n characters. Overlong input is
// clipped silently rather than reported, matching the fixed-buffer
// behaviour of the terminal kernels this mirrors.
func clipRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// AID returns the candidate's application identifier. The slice aliases
// the candidate's field collection and shares its lifetime.
func (c *Candidate) AID() []byte { return c.aid }

// DisplayName returns the name derived at construction, at most 32
// characters.
func (c *Candidate) DisplayName() string { return c.name }

// Priority returns the application priority, 1 (highest) to 15, or 0 when
// the card did not specify one.
func (c *Candidate) Priority() byte { return c.priority }

// ConfirmationRequired reports whether the card demands explicit
// cardholder confirmation before this application may be selected.
func (c *Candidate) ConfirmationRequired() bool { return c.confirm }

// Fields exposes the candidate's parsed field collection.
func (c *Candidate) Fields() *tlv.Fields { return c.fields }

// Release drops the candidate's parsed data. It refuses to release a
// candidate that is still a member of a list, leaving it untouched.
func (c *Candidate) Release() error {
	if c.linked {
		return ErrStillLinked
	}
	c.fields = nil
	c.aid = nil
	return nil
}
