package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/glowstrip/internal/board"
	"github.com/coreman2200/glowstrip/internal/fade"
	"github.com/coreman2200/glowstrip/internal/led"
)

// Board and Targets live in package board so the firmware build can use
// them without the YAML stack.
type Board = board.Board

var Targets = board.Targets

type SPI struct {
	Port    string `yaml:"port"`     // e.g. /dev/spidev0.0; empty picks the first
	FreqKHz int    `yaml:"freq_khz"` // NRZ line rate, usually 800
}

// Power caps the estimated strip current; zero means uncapped.
type Power struct {
	BudgetMA int `yaml:"budget_ma"`
}

type Fade struct {
	Hue        uint8   `yaml:"hue"`
	Saturation uint8   `yaml:"saturation"`
	Min        uint8   `yaml:"min"`
	Max        uint8   `yaml:"max"`
	Steps      []uint8 `yaml:"steps,flow"`
	Lookahead  int     `yaml:"lookahead"`
	Chance     int     `yaml:"chance"` // percent per free slot per tick
	Slots      int     `yaml:"slots"`  // 0 means one per pixel
	Easing     string  `yaml:"easing"` // "wave" | "stepped"
	Cycle      string  `yaml:"cycle"`  // "recycle" | "persist"
}

type Config struct {
	Target     string `yaml:"target"` // key into Targets, or "custom"
	Driver     string `yaml:"driver"` // "nrz" | "console" | "sim"
	FPS        int    `yaml:"fps"`
	Brightness uint8  `yaml:"brightness"`
	Addr       string `yaml:"addr,omitempty"`

	Board Board `yaml:"board,omitempty"`
	SPI   SPI   `yaml:"spi,omitempty"`
	Power Power `yaml:"power,omitempty"`
	Fade  Fade  `yaml:"fade"`
}

// Default is the wokwi breadboard setup: 18 pixels breathing at 160 fps.
func Default() *Config {
	return &Config{
		Target:     "wokwi",
		Driver:     "sim",
		FPS:        160,
		Brightness: led.DefaultBrightness,
		SPI:        SPI{FreqKHz: 800},
		Fade: Fade{
			Hue:        240,
			Saturation: 255,
			Min:        150,
			Max:        255,
			Steps:      []uint8{1, 2, 3, 5, 8, 13},
			Lookahead:  5,
			Chance:     1,
			Easing:     "wave",
			Cycle:      "recycle",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	return Overlay(path, Default())
}

// Overlay reads path over base, so keys absent from the file keep the
// values base already holds. base is modified in place.
func Overlay(path string, base *Config) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := base
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ResolveBoard merges the named target with any explicit board overrides.
func (c *Config) ResolveBoard() (Board, error) {
	b, ok := Targets[c.Target]
	if !ok && c.Target != "custom" {
		return Board{}, fmt.Errorf("%w: unknown target %q (known: %s)", fade.ErrConfig, c.Target, knownTargets())
	}
	if c.Board.Pixels > 0 {
		b.Pixels = c.Board.Pixels
	}
	if c.Board.DataPin > 0 {
		b.DataPin = c.Board.DataPin
	}
	if c.Board.ColorOrder != "" {
		b.ColorOrder = c.Board.ColorOrder
	}
	if len(c.Board.Correction) > 0 {
		b.Correction = c.Board.Correction
	}
	if b.Pixels <= 0 {
		return Board{}, fmt.Errorf("%w: target %q has no pixel count", fade.ErrConfig, c.Target)
	}
	if b.ColorOrder == "" {
		b.ColorOrder = "GRB"
	}
	return b, nil
}

// FadeConfig builds the engine configuration for the resolved board.
func (c *Config) FadeConfig() (fade.Config, error) {
	b, err := c.ResolveBoard()
	if err != nil {
		return fade.Config{}, err
	}
	easing, err := fade.ParseEasing(c.Fade.Easing)
	if err != nil {
		return fade.Config{}, err
	}
	cycle, err := fade.ParseCycle(c.Fade.Cycle)
	if err != nil {
		return fade.Config{}, err
	}
	slots := c.Fade.Slots
	if slots == 0 {
		slots = b.Pixels
	}
	fc := fade.Config{
		Pixels:     b.Pixels,
		Slots:      slots,
		Hue:        c.Fade.Hue,
		Saturation: c.Fade.Saturation,
		FadeMin:    c.Fade.Min,
		FadeMax:    c.Fade.Max,
		Steps:      fade.StepTable(c.Fade.Steps),
		Lookahead:  c.Fade.Lookahead,
		Chance:     c.Fade.Chance,
		Easing:     easing,
		Cycle:      cycle,
	}
	return fc, fc.Validate()
}

// Validate checks everything needed to start.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", fade.ErrConfig, c.FPS)
	}
	if c.Power.BudgetMA < 0 {
		return fmt.Errorf("%w: power budget must not be negative, got %d", fade.ErrConfig, c.Power.BudgetMA)
	}
	switch c.Driver {
	case "nrz", "console", "sim":
	default:
		return fmt.Errorf("%w: unknown driver %q", fade.ErrConfig, c.Driver)
	}
	b, err := c.ResolveBoard()
	if err != nil {
		return err
	}
	if _, err := b.Order(); err != nil {
		return err
	}
	if _, err := b.ColorCorrection(); err != nil {
		return err
	}
	_, err = c.FadeConfig()
	return err
}

func knownTargets() string {
	names := make([]string, 0, len(Targets))
	for k := range Targets {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Store guards a running config and writes accepted edits back to path.
type Store struct {
	mu   sync.Mutex
	path string
	cfg  Config
}

func NewStore(path string, c *Config) *Store {
	return &Store{path: path, cfg: *c}
}

// Update applies fn to a copy, validates it and saves it. The stored
// config only changes when both succeed.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cfg
	next.Fade.Steps = append([]uint8(nil), s.cfg.Fade.Steps...)
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := Save(s.path, &next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// Config returns a copy of the current settings.
func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// ByteLevel converts a command-line level such as brightness, rejecting
// values a uint8 cannot hold instead of wrapping them.
func ByteLevel(name string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: %s %d outside 0..255", fade.ErrConfig, name, v)
	}
	return uint8(v), nil
}
