package model

import (
	"errors"
	"fmt"
	"os"

	"github.com/sugawarayuuta/sonnet"

	"github.com/lixenwraith/signal-collider/parameter"
)

// Patch file identity
const (
	StorageSignature = "brstmata"
	StorageVersion   = 1
)

// Sentinel errors
var (
	ErrBadSignature  = errors.New("not a patch file")
	ErrBadVersion    = errors.New("unsupported patch version")
	ErrBadDimensions = errors.New("patch dimensions do not match the grid")
	ErrBadGlyph      = errors.New("invalid glyph in patch")
)

// Storage is the on-disk patch: grid values as rows of glyphs
type Storage struct {
	Signature string   `json:"signature"`
	Version   int      `json:"version"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Rows      []string `json:"rows"`
}

// Capture snapshots the values of m into a Storage
func Capture(m *Model) *Storage {
	s := &Storage{
		Signature: StorageSignature,
		Version:   StorageVersion,
		Width:     parameter.GridWidth,
		Height:    parameter.GridHeight,
		Rows:      make([]string, parameter.GridHeight),
	}
	row := make([]rune, parameter.GridWidth)
	for y := range m.Cells {
		for x := range m.Cells[y] {
			row[x] = m.Cells[y][x].Value.Glyph()
		}
		s.Rows[y] = string(row)
	}
	return s
}

// Grid validates s and decodes it into grid values
func (s *Storage) Grid() (*Grid, error) {
	if s.Signature != StorageSignature {
		return nil, ErrBadSignature
	}
	if s.Version != StorageVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, s.Version)
	}
	if s.Width != parameter.GridWidth || s.Height != parameter.GridHeight || len(s.Rows) != parameter.GridHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, s.Width, s.Height)
	}

	g := new(Grid)
	for y, row := range s.Rows {
		runes := []rune(row)
		if len(runes) != parameter.GridWidth {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrBadDimensions, y, len(runes))
		}
		for x, r := range runes {
			v, ok := ParseGlyph(r)
			if !ok {
				return nil, fmt.Errorf("%w: %q at %d,%d", ErrBadGlyph, r, x, y)
			}
			g[y][x] = v
		}
	}
	return g, nil
}

// Marshal encodes s as JSON
func (s *Storage) Marshal() ([]byte, error) {
	return sonnet.Marshal(s)
}

// UnmarshalStorage decodes a JSON patch without validating it
func UnmarshalStorage(data []byte) (*Storage, error) {
	s := &Storage{}
	if err := sonnet.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return s, nil
}

// SaveFile writes s to path
func SaveFile(path string, s *Storage) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write patch: %w", err)
	}
	return nil
}

// LoadFile reads and validates a patch, returning its grid values
func LoadFile(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch: %w", err)
	}
	s, err := UnmarshalStorage(data)
	if err != nil {
		return nil, err
	}
	return s.Grid()
}
