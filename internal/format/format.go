package format

import (
	"fmt"
	"strings"
)

// Format names an output container
type Format struct {
	s string
}

var (
	PNG  = Format{"PNG"}
	JPEG = Format{"JPEG"}
	BMP  = Format{"BMP"}
	GIF  = Format{"GIF"}
	ICO  = Format{"ICO"}
	WEBP = Format{"WEBP"}
)

// All returns every supported format in display order
func All() []Format {
	return []Format{PNG, JPEG, BMP, GIF, ICO, WEBP}
}

// Parse resolves a format name case-insensitively. "jpg" is accepted as JPEG.
func Parse(s string) (Format, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "JPG" {
		name = "JPEG"
	}
	for _, f := range All() {
		if f.s == name {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("unknown format: %q (must be one of %s)", s, strings.Join(Names(), ", "))
}

// Names returns the display names of all formats
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, f := range all {
		names = append(names, f.s)
	}
	return names
}

// String returns the upper-case display name
func (f Format) String() string {
	return f.s
}

// Extension returns the lower-case file extension without the dot
func (f Format) Extension() string {
	return strings.ToLower(f.s)
}

// IsZero reports whether f is the zero Format
func (f Format) IsZero() bool {
	return f.s == ""
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.s), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FileName builds the output file name for the given dimensions
func FileName(width, height int, f Format) string {
	return fmt.Sprintf("%dx%d.%s", width, height, f.Extension())
}
