package charset

import (
	"errors"
	"testing"
)

func supportedPages() []byte {
	return []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 14, 15}
}

func TestIsSupported(t *testing.T) {
	for page := byte(0); page <= 20; page++ {
		expected := page >= 1 && page <= 15 && page != 12
		if got := IsSupported(page); got != expected {
			t.Errorf("IsSupported(%d) = %v; want %v", page, got, expected)
		}
	}
}

func TestFromTableIndex(t *testing.T) {
	tests := []struct {
		index    byte
		wantPage byte
		wantOK   bool
	}{
		{1, 1, true},
		{11, 11, true},
		{15, 15, true},
		{0, 0, false},
		{12, 0, false},
		{16, 0, false},
	}

	for _, tt := range tests {
		page, ok := FromTableIndex(tt.index)
		if page != tt.wantPage || ok != tt.wantOK {
			t.Errorf("FromTableIndex(%d) = (%d, %v); want (%d, %v)",
				tt.index, page, ok, tt.wantPage, tt.wantOK)
		}
	}
}

// Every supported page contains printable ASCII unchanged.
func TestDecode_ASCIIIdentity(t *testing.T) {
	ascii := make([]byte, 0, 0x7F-0x20)
	for b := byte(0x20); b < 0x7F; b++ {
		ascii = append(ascii, b)
	}

	for _, page := range supportedPages() {
		got, err := Decode(page, ascii)
		if err != nil {
			t.Errorf("Page %d: Decode failed: %v", page, err)
			continue
		}
		if got != string(ascii) {
			t.Errorf("Page %d: ASCII not preserved: %q", page, got)
		}
	}
}

// A terminator at offset 0 yields an empty result and no error.
func TestDecode_TerminatorAtStart(t *testing.T) {
	for _, page := range supportedPages() {
		got, err := Decode(page, []byte{0x00})
		if err != nil {
			t.Errorf("Page %d: Decode failed: %v", page, err)
			continue
		}
		if got != "" {
			t.Errorf("Page %d: expected empty result, got %q", page, got)
		}
	}
}

func TestDecode_StopsAtTerminator(t *testing.T) {
	got, err := Decode(1, []byte{'A', 'B', 0x00, 'C', 'D'})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != "AB" {
		t.Errorf("Decode = %q; want %q", got, "AB")
	}
}

func TestDecode_PageMappings(t *testing.T) {
	tests := []struct {
		name     string
		page     byte
		input    []byte
		expected string
	}{
		{"Latin-1 accents", 1, []byte{'C', 'A', 'F', 0xC9}, "CAFÉ"},
		{"Latin-2 stroke L", 2, []byte{0xA3}, "Ł"},
		{"Cyrillic", 5, []byte{0xB0, 0xB5, 0xC0}, "АЕР"},
		{"Greek", 7, []byte{0xC1, 0xC2}, "ΑΒ"},
		{"Turkish", 9, []byte{0xD0}, "Ğ"},
		{"Thai", 11, []byte{0xA1, 0xA2}, "กข"},
		{"Latin-9 euro sign", 15, []byte{0xA4}, "€"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.page, tt.input)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Decode(%d, %X) = %q; want %q", tt.page, tt.input, got, tt.expected)
			}
		})
	}
}

func TestDecode_RejectsMalformedBytes(t *testing.T) {
	tests := []struct {
		name  string
		page  byte
		input []byte
	}{
		{"C0 control", 1, []byte{'A', 0x1F}},
		{"DEL", 1, []byte{0x7F}},
		{"Latin-1 C1 range", 1, []byte{0x80}},
		{"Charmap C1 range", 5, []byte{0x9F}},
		{"Unassigned in Arabic page", 6, []byte{0xA1}},
		{"Unassigned Thai gap", 11, []byte{0xDB}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.page, tt.input)
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("Decode(%d, %X) error = %v; want ErrMalformedInput", tt.page, tt.input, err)
			}
		})
	}
}

func TestDecode_UnsupportedPage(t *testing.T) {
	for _, page := range []byte{0, 12, 16, 0xFF} {
		_, err := Decode(page, []byte{'A'})
		if !errors.Is(err, ErrUnsupportedPage) {
			t.Errorf("Decode(page %d) error = %v; want ErrUnsupportedPage", page, err)
		}
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	if _, err := Decode(1, nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Decode(nil) error = %v; want ErrEmptyInput", err)
	}
}
