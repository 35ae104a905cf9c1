// Package tlv builds a flat, queryable field collection on top of the
// moov-io/bertlv decoder, the shape in which EMV application selection
// consumes record and FCI data.
package tlv

import (
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// Field is a single decoded tag/value pair.
type Field struct {
	Tag   string // upper-case hex, e.g. "9F12"
	Value []byte
}

// Fields is a flat collection of decoded fields. Lookup is by tag; the
// original record order is preserved for display. A collection is owned by
// the record that parsed it and is never mutated afterwards.
type Fields struct {
	list []Field
}

// ParseFields decodes raw BER-TLV content into a flat field collection.
// Constructed tags are descended into; only primitive values are kept,
// in record order.
func ParseFields(data []byte) (*Fields, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty TLV data")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("BER-TLV decode failed: %w", err)
	}

	f := &Fields{}
	f.collect(packets)
	return f, nil
}

// ParseTemplate decodes data that must consist of exactly one outer
// template carrying the given tag, and returns its flattened content.
// Trailing bytes after the template are rejected.
func ParseTemplate(data []byte, outerTag string) (*Fields, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty TLV data")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("BER-TLV decode failed: %w", err)
	}

	if len(packets) != 1 {
		return nil, fmt.Errorf("expected a single outer template, got %d objects", len(packets))
	}
	if !strings.EqualFold(packets[0].Tag, outerTag) {
		return nil, fmt.Errorf("outer tag is %s, want %s",
			strings.ToUpper(packets[0].Tag), strings.ToUpper(outerTag))
	}

	f := &Fields{}
	f.collect(packets[0].TLVs)
	return f, nil
}

func (f *Fields) collect(packets []bertlv.TLV) {
	for _, p := range packets {
		if len(p.TLVs) > 0 {
			f.collect(p.TLVs)
			continue
		}
		f.list = append(f.list, Field{Tag: strings.ToUpper(p.Tag), Value: p.Value})
	}
}

// Find returns the value of the first field carrying the given tag.
// The returned slice aliases the collection's storage and shares its
// lifetime; callers must not modify it.
func (f *Fields) Find(tag string) ([]byte, bool) {
	if f == nil {
		return nil, false
	}
	for _, fl := range f.list {
		if strings.EqualFold(fl.Tag, tag) {
			return fl.Value, true
		}
	}
	return nil, false
}

// Len returns the number of fields in the collection.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.list)
}

// All returns the fields in record order. The slice is shared, not copied.
func (f *Fields) All() []Field {
	if f == nil {
		return nil
	}
	return f.list
}
