package video

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Mode is the window-placement policy requested for a start cycle.
type Mode int32

const (
	// ModeWindowed places an ordinary window of the requested size.
	ModeWindowed Mode = iota

	// ModeMaximized places a maximized window covering the work area.
	ModeMaximized

	// ModeFullscreen takes exclusive fullscreen at an explicit size.
	ModeFullscreen

	// ModeWindowedFullscreen places a borderless window at (0,0) sized to
	// the desktop display mode.
	ModeWindowedFullscreen
)

var modeNames = map[Mode]string{
	ModeWindowed:           "windowed",
	ModeMaximized:          "maximized",
	ModeFullscreen:         "fullscreen",
	ModeWindowedFullscreen: "windowed-fullscreen",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int32(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	s, ok := modeNames[m]
	if !ok {
		return nil, fmt.Errorf("video: unknown screen mode %d", int32(m))
	}
	return []byte(s), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for k, v := range modeNames {
		if v == string(text) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("video: unknown screen mode %q", string(text))
}

// Position is an explicit window position in desktop coordinates.
type Position struct {
	X int `toml:"x"`
	Y int `toml:"y"`
}

// Settings is the screen-mode and geometry request supplied by the
// application. Width and Height are required for windowed and fullscreen
// modes and ignored otherwise. A nil Pos means "let the platform place
// the window", which on most systems centers it.
type Settings struct {
	Mode   Mode      `toml:"mode"`
	Width  int       `toml:"width"`
	Height int       `toml:"height"`
	Pos    *Position `toml:"pos,omitempty"`
}

// Validate checks the geometry request against its mode.
func (s Settings) Validate() error {
	switch s.Mode {
	case ModeWindowed, ModeFullscreen:
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("video: %v mode requires an explicit size, got %dx%d",
				s.Mode, s.Width, s.Height)
		}
	case ModeMaximized, ModeWindowedFullscreen:
		// size comes from the desktop display mode
	default:
		return fmt.Errorf("video: unknown screen mode %d", int32(s.Mode))
	}
	return nil
}

// LoadSettings reads a Settings TOML file.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("video: reading settings: %w", err)
	}
	if err := toml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("video: parsing settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// resolveGeometry turns a geometry request into the screen dimensions for
// one start cycle. Maximized and windowed-fullscreen sizes come from the
// desktop display mode; the other modes carry an explicit size.
func resolveGeometry(ws WindowSystem, s Settings) (width, height int, err error) {
	if err := s.Validate(); err != nil {
		return 0, 0, err
	}
	switch s.Mode {
	case ModeMaximized, ModeWindowedFullscreen:
		width, height, err = ws.DesktopMode()
		if err != nil {
			return 0, 0, fmt.Errorf("video: querying desktop mode: %w", err)
		}
		return width, height, nil
	default:
		return s.Width, s.Height, nil
	}
}
