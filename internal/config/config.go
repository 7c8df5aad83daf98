// Package config loads the YAML configuration shared by the server and the
// local client.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"blockfall/internal/game"
)

type Config struct {
	Board  BoardSection  `yaml:"board"`
	Speed  SpeedSection  `yaml:"speed"`
	Spawn  SpawnSection  `yaml:"spawn"`
	Pieces PiecesSection `yaml:"pieces"`
	Server ServerSection `yaml:"server"`
	Audio  AudioSection  `yaml:"audio"`
}

type BoardSection struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	TileSize int `yaml:"tile_size"`
}

type SpeedSection struct {
	NormalMS   int `yaml:"normal_ms"`
	SoftDropMS int `yaml:"soft_drop_ms"`
}

type SpawnSection struct {
	Position    int `yaml:"position"`
	Depth       int `yaml:"depth"`
	Orientation int `yaml:"orientation"`
}

type PiecesSection struct {
	Factory string `yaml:"factory"`
	Catalog string `yaml:"catalog,omitempty"` // empty means the built-in catalogue
	Seed    uint64 `yaml:"seed,omitempty"`    // 0 seeds randomly
}

type ServerSection struct {
	Addr           string `yaml:"addr"`
	HostKey        string `yaml:"host_key"`
	SpectateAddr   string `yaml:"spectate_addr,omitempty"`   // empty disables spectating
	SpectateRemote bool   `yaml:"spectate_remote,omitempty"` // admit non-loopback spectators
}

type AudioSection struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// Load reads path over the defaults. An empty path returns the defaults.
// A PORT environment variable overrides the SSH listen port.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", orDefault(path), err)
	}
	return cfg, nil
}

func Defaults() Config {
	g := game.DefaultConfig()
	return Config{
		Board: BoardSection{Width: g.Width, Height: g.Height, TileSize: g.TileSize},
		Speed: SpeedSection{
			NormalMS:   int(g.NormalSpeed.Milliseconds()),
			SoftDropMS: int(g.SoftDropSpeed.Milliseconds()),
		},
		Spawn:  SpawnSection{Position: g.SpawnPosition, Depth: g.SpawnDepth, Orientation: g.SpawnOrientation},
		Pieces: PiecesSection{Factory: game.FactoryBag},
		Server: ServerSection{Addr: ":2222", HostKey: "host_key"},
		Audio:  AudioSection{Enabled: true, Volume: 0.5},
	}
}

// Validate checks the fields the game does not check itself.
func (c Config) Validate() error {
	switch c.Pieces.Factory {
	case game.FactoryBag, game.FactoryRandom, game.FactoryCycle:
	default:
		return fmt.Errorf("%w: unknown piece factory %q", game.ErrInvalidConfig, c.Pieces.Factory)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", game.ErrInvalidConfig)
	}
	if _, port, ok := strings.Cut(c.Server.Addr, ":"); !ok || !validPort(port) {
		return fmt.Errorf("%w: server.addr %q has no valid port", game.ErrInvalidConfig, c.Server.Addr)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume %v outside [0, 1]", game.ErrInvalidConfig, c.Audio.Volume)
	}
	if c.Speed.NormalMS <= 0 || c.Speed.SoftDropMS <= 0 {
		return fmt.Errorf("%w: speeds must be positive (normal_ms %d, soft_drop_ms %d)", game.ErrInvalidConfig, c.Speed.NormalMS, c.Speed.SoftDropMS)
	}
	return c.Game().Validate()
}

// Game converts the board, speed and spawn sections into a game.Config.
func (c Config) Game() game.Config {
	return game.Config{
		Width:            c.Board.Width,
		Height:           c.Board.Height,
		TileSize:         c.Board.TileSize,
		NormalSpeed:      game.MsToDuration(c.Speed.NormalMS),
		SoftDropSpeed:    game.MsToDuration(c.Speed.SoftDropMS),
		SpawnOrientation: c.Spawn.Orientation,
		SpawnPosition:    c.Spawn.Position,
		SpawnDepth:       c.Spawn.Depth,
	}
}

func validPort(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 65535
}

func orDefault(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
