// Package config loads match settings from YAML and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/tank-duel/internal/game"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Player configures one side of the match.
type Player struct {
	Policy string   `yaml:"policy"`
	Facing string   `yaml:"facing"` // compass abbreviation; empty keeps the default
	Script []string `yaml:"script"` // actions for the scripted policy
	Loop   bool     `yaml:"loop"`
}

// Viewer configures the replay window.
type Viewer struct {
	Scale int  `yaml:"scale"` // pixels per cell
	TPS   int  `yaml:"tps"`   // replay ticks per second
	Live  bool `yaml:"live"`  // play against the configured agents from the keyboard
}

// Config represents a complete run.
type Config struct {
	Board    string `yaml:"board"`
	Runs     int    `yaml:"runs"`
	MaxTicks int    `yaml:"max_ticks"`
	Store    string `yaml:"store"` // sqlite path; empty disables persistence
	LogLevel string `yaml:"log_level"`

	Player1 Player `yaml:"player1"`
	Player2 Player `yaml:"player2"`
	Viewer  Viewer `yaml:"viewer"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Board:    "boards/arena.txt",
		Runs:     1,
		MaxTicks: game.DefaultMaxTicks,
		LogLevel: "info",
		Player1:  Player{Policy: "pursuer"},
		Player2:  Player{Policy: "evader"},
		Viewer:   Viewer{Scale: 24, TPS: 8},
	}
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	c := Default()
	if err := loadYAML(path, c); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return c, nil
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Board, "board", c.Board, "board file")
	fs.IntVar(&c.Runs, "runs", c.Runs, "number of matches to play")
	fs.IntVar(&c.MaxTicks, "max-ticks", c.MaxTicks, "tick cap per match")
	fs.StringVar(&c.Store, "store", c.Store, "sqlite file for match history (empty disables)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.Player1.Policy, "p1", c.Player1.Policy, "player 1 policy")
	fs.StringVar(&c.Player2.Policy, "p2", c.Player2.Policy, "player 2 policy")
	fs.StringVar(&c.Player1.Facing, "p1-facing", c.Player1.Facing, "player 1 initial facing")
	fs.StringVar(&c.Player2.Facing, "p2-facing", c.Player2.Facing, "player 2 initial facing")
	fs.IntVar(&c.Viewer.Scale, "scale", c.Viewer.Scale, "pixels per cell")
	fs.IntVar(&c.Viewer.TPS, "tps", c.Viewer.TPS, "replay ticks per second")
	fs.BoolVar(&c.Viewer.Live, "live", c.Viewer.Live, "drive player 1 from the keyboard")
}

// Parse builds a Config from command-line arguments. A -config file is
// loaded first; flags given on the command line override its values. extra
// binds command-specific flags onto the same FlagSet.
func Parse(name string, args []string, output io.Writer, extra ...func(*flag.FlagSet)) (*Config, error) {
	var path string
	c := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&path, "config", "", "YAML config file")
	c.Bind(fs)
	for _, bind := range extra {
		bind(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		c = loaded
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.String("config", path, "")
		c.Bind(fs)
		for _, bind := range extra {
			bind(fs)
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks policies, facings, scripts and numeric ranges.
func (c *Config) Validate() error {
	if c.Board == "" {
		return fmt.Errorf("%w: board path is empty", ErrInvalid)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("%w: runs must be > 0", ErrInvalid)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("%w: max_ticks must be > 0", ErrInvalid)
	}
	if c.Viewer.Scale <= 0 || c.Viewer.TPS <= 0 {
		return fmt.Errorf("%w: viewer scale and tps must be > 0", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	for i, p := range []Player{c.Player1, c.Player2} {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: player%d: %v", ErrInvalid, i+1, err)
		}
	}
	return nil
}

func (p Player) validate() error {
	if _, err := p.script(); err != nil {
		return err
	}
	if p.Facing != "" {
		if _, err := game.ParseDirection(p.Facing); err != nil {
			return err
		}
	}
	_, err := p.agent()
	return err
}

func (p Player) script() ([]game.Action, error) {
	out := make([]game.Action, 0, len(p.Script))
	for _, s := range p.Script {
		a, err := game.ParseAction(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (p Player) agent() (game.Agent, error) {
	script, err := p.script()
	if err != nil {
		return nil, err
	}
	a, err := game.NewAgent(p.Policy, script)
	if err != nil {
		return nil, err
	}
	if s, ok := a.(*game.Scripted); ok {
		s.Loop = p.Loop
	}
	return a, nil
}

// Agents builds fresh agents for both players. Call it once per match: the
// pursuer and scripted agents carry per-match state.
func (c *Config) Agents() ([2]game.Agent, error) {
	var out [2]game.Agent
	for i, p := range []Player{c.Player1, c.Player2} {
		a, err := p.agent()
		if err != nil {
			return out, fmt.Errorf("player%d: %w", i+1, err)
		}
		out[i] = a
	}
	return out, nil
}

// EngineOptions returns the engine options implied by the config. An
// unparseable facing is an ErrInvalid error rather than a silent default.
func (c *Config) EngineOptions() ([]game.EngineOption, error) {
	var opts []game.EngineOption
	for i, p := range []Player{c.Player1, c.Player2} {
		if p.Facing == "" {
			continue
		}
		d, err := game.ParseDirection(p.Facing)
		if err != nil {
			return nil, fmt.Errorf("%w: player%d: %v", ErrInvalid, i+1, err)
		}
		opts = append(opts, game.WithFacing(i+1, d))
	}
	return opts, nil
}

// Live reports whether player 1 is keyboard driven.
func (c *Config) Live() bool {
	return c.Viewer.Live || strings.EqualFold(c.Player1.Policy, "relay") || strings.EqualFold(c.Player1.Policy, "human")
}

// NewLogger returns a structured logger at the configured level.
func (c *Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}

// LoadBoard reads the configured board, logging each ingest diagnostic as a
// warning. Only a bad header or an unreadable file is an error.
func (c *Config) LoadBoard(logger *log.Logger) (*game.Grid, error) {
	grid, diags, err := game.LoadBoardFile(c.Board)
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		logger.Warn("board input", "file", c.Board, "line", d.Line, "col", d.Col, "msg", d.Message)
	}
	logger.Debug("board loaded", "file", c.Board, "cols", grid.Cols, "rows", grid.Rows, "diagnostics", len(diags))
	return grid, nil
}

// NewMatch starts a match on a copy of grid with fresh agents. extra options
// apply after the configured ones.
func (c *Config) NewMatch(grid *game.Grid, sl *game.SimLog, extra ...game.EngineOption) (*game.Match, error) {
	agents, err := c.Agents()
	if err != nil {
		return nil, err
	}
	opts, err := c.EngineOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, game.WithSimLog(sl))
	opts = append(opts, extra...)
	e, err := game.NewEngine(grid.Clone(), opts...)
	if err != nil {
		return nil, fmt.Errorf("start match on %s: %w", c.Board, err)
	}
	return game.NewMatch(e, agents[0], agents[1]), nil
}
