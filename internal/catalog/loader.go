package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"blockfall/internal/game"
	"blockfall/internal/render"
)

// colorNames maps color names from JSON to ANSI codes.
var colorNames = map[string]int{
	"black":          30,
	"red":            31,
	"green":          32,
	"yellow":         33,
	"blue":           34,
	"magenta":        35,
	"cyan":           36,
	"white":          37,
	"gray":           90,
	"grey":           90,
	"bright_red":     91,
	"bright_green":   92,
	"bright_yellow":  93,
	"bright_blue":    94,
	"bright_magenta": 95,
	"bright_cyan":    96,
	"bright_white":   97,
}

// ResolveColor accepts a palette name or #rrggbb.
func ResolveColor(name string) (game.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if code, ok := colorNames[name]; ok {
		r, g, b := render.AnsiToRGB(code)
		return game.Color{R: r, G: g, B: b}, nil
	}
	if len(name) == 7 && name[0] == '#' {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err == nil {
			return game.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
		}
	}
	return game.Color{}, fmt.Errorf("unknown color %q", name)
}

// Catalog is a named set of piece kinds.
type Catalog struct {
	Name  string
	Kinds []*game.Kind
}

// Kind returns the kind with the given name, or nil.
func (c *Catalog) Kind(name string) *game.Kind {
	for _, k := range c.Kinds {
		if k.Name == name {
			return k
		}
	}
	return nil
}

// jsonCatalog is the on-disk JSON format.
type jsonCatalog struct {
	Name  string     `json:"name"`
	Kinds []jsonKind `json:"kinds"`
}

type jsonKind struct {
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	Rotations [][][2]int `json:"rotations"`
}

// Parse decodes a JSON catalogue.
func Parse(data []byte) (*Catalog, error) {
	var jc jsonCatalog
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("parse catalog JSON: %w", err)
	}
	if jc.Name == "" {
		return nil, fmt.Errorf("catalog has no name")
	}
	if len(jc.Kinds) == 0 {
		return nil, fmt.Errorf("catalog %q has no kinds", jc.Name)
	}

	cat := &Catalog{Name: jc.Name}
	for _, jk := range jc.Kinds {
		if cat.Kind(jk.Name) != nil {
			return nil, fmt.Errorf("catalog %q: duplicate kind %q", jc.Name, jk.Name)
		}
		color, err := ResolveColor(jk.Color)
		if err != nil {
			return nil, fmt.Errorf("kind %q: %w", jk.Name, err)
		}
		k := &game.Kind{Name: jk.Name, Color: color}
		for i, rot := range jk.Rotations {
			if len(rot) != 4 {
				return nil, fmt.Errorf("kind %q rotation %d has %d cells, expected 4", jk.Name, i, len(rot))
			}
			var s game.Shape
			for j, c := range rot {
				s[j] = game.Point{X: c[0], Y: c[1]}
			}
			k.Rotations = append(k.Rotations, s)
		}
		if err := k.Validate(); err != nil {
			return nil, err
		}
		cat.Kinds = append(cat.Kinds, k)
	}
	return cat, nil
}

// Load reads a JSON catalogue file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// LoadDir scans a directory for *.json files, loads each as a Catalog,
// and returns them indexed by Name.
func LoadDir(dir string) (map[string]*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog directory: %w", err)
	}

	all := make(map[string]*Catalog)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		c, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		if _, exists := all[c.Name]; exists {
			return nil, fmt.Errorf("duplicate catalog name %q in %s", c.Name, entry.Name())
		}
		all[c.Name] = c
	}
	return all, nil
}

// Standard returns the built-in tetromino catalogue.
func Standard() *Catalog {
	return &Catalog{Name: "standard", Kinds: game.StandardKinds()}
}

// Resolve loads path, or returns the standard catalogue when path is empty.
func Resolve(path string) (*Catalog, error) {
	if path == "" {
		return Standard(), nil
	}
	return Load(path)
}

// Encode writes c in the JSON catalogue format. Colors are written as #rrggbb.
func Encode(c *Catalog) ([]byte, error) {
	jc := jsonCatalog{Name: c.Name}
	for _, k := range c.Kinds {
		jk := jsonKind{Name: k.Name, Color: k.Color.Hex()}
		for _, s := range k.Rotations {
			rot := make([][2]int, len(s))
			for i, p := range s {
				rot[i] = [2]int{p.X, p.Y}
			}
			jk.Rotations = append(jk.Rotations, rot)
		}
		jc.Kinds = append(jc.Kinds, jk)
	}
	return json.MarshalIndent(jc, "", "  ")
}
