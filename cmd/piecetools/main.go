package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"blockfall/internal/catalog"
	"blockfall/internal/game"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: piecetools validate <catalog-dir>")
			os.Exit(1)
		}
		os.Exit(runValidate(os.Stdout, args[0], game.DefaultConfig()))
	case "viz":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: piecetools viz <catalog-file>")
			os.Exit(1)
		}
		os.Exit(withCatalog(args[0], func(c *catalog.Catalog) { runViz(os.Stdout, c) }))
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: piecetools stats <catalog-file>")
			os.Exit(1)
		}
		os.Exit(withCatalog(args[0], func(c *catalog.Catalog) { runStats(os.Stdout, c) }))
	case "export":
		b, err := catalog.Encode(catalog.Standard())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
	case "all":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: piecetools all <catalog-dir>")
			os.Exit(1)
		}
		os.Exit(runAll(os.Stdout, args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: piecetools <command> <path>

Commands:
  validate <catalog-dir>   Validate all catalogues in directory
  viz      <catalog-file>  Draw every rotation state of every kind
  stats    <catalog-file>  Show rotation counts and footprints
  export                   Print the built-in catalogue as JSON
  all      <catalog-dir>   Run validate + viz + stats for all catalogues`)
}

func withCatalog(path string, fn func(*catalog.Catalog)) int {
	c, err := catalog.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fn(c)
	return 0
}

// --- validate ---

// runValidate loads every catalogue in dir and checks each kind against a
// board built from cfg: the spawn configuration must be free and inside the
// walls, and the spawn state should reach the top visible row.
func runValidate(w io.Writer, dir string, cfg game.Config) int {
	all, err := catalog.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(w, "FAIL: %v\n", err)
		return 1
	}

	errors := 0
	for _, name := range sortedNames(all) {
		c := all[name]
		fmt.Fprintf(w, "Validating %q...\n", name)
		found := 0
		for _, k := range c.Kinds {
			for _, problem := range checkSpawn(k, cfg) {
				fmt.Fprintf(w, "  ERROR: %s: %s\n", k.Name, problem)
				found++
			}
			if !entersTopRow(k, cfg) {
				fmt.Fprintf(w, "  WARN: %s: spawn state does not reach row 0, it enters the board a tick late\n", k.Name)
			}
		}
		if found == 0 {
			fmt.Fprintf(w, "  OK (%d kinds)\n", len(c.Kinds))
		}
		errors += found
	}

	if errors > 0 {
		fmt.Fprintf(w, "\n%d error(s) found\n", errors)
		return 1
	}
	fmt.Fprintf(w, "\nAll %d catalogues valid\n", len(all))
	return 0
}

// checkSpawn reports why an empty board could not accept k at the spawn point.
func checkSpawn(k *game.Kind, cfg game.Config) []string {
	b, err := game.NewBoard(cfg, nil, nil, game.NewCycleFactory(k))
	if err != nil {
		return []string{err.Error()}
	}
	var problems []string
	o := game.NewPiece(k, cfg.SpawnOrientation, cfg.SpawnPosition, cfg.SpawnDepth, cfg.TileSize).Orientation
	if !b.CheckMove(cfg.SpawnPosition, cfg.SpawnDepth, o) {
		problems = append(problems, fmt.Sprintf("spawn state %d at column %d is outside the walls", o, cfg.SpawnPosition))
	}
	for r := range k.Rotations {
		if r != o && !b.CheckMove(cfg.SpawnPosition, cfg.SpawnDepth+2, r) {
			problems = append(problems, fmt.Sprintf("rotation %d cannot be reached from spawn", r))
		}
	}
	return problems
}

func entersTopRow(k *game.Kind, cfg game.Config) bool {
	p := game.NewPiece(k, cfg.SpawnOrientation, cfg.SpawnPosition, cfg.SpawnDepth, cfg.TileSize)
	for _, c := range p.CellsAt(p.Orientation, p.Position, p.Depth+1) {
		if c.Y == 0 {
			return true
		}
	}
	return false
}

func sortedNames(all map[string]*catalog.Catalog) []string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- viz ---

func runViz(w io.Writer, c *catalog.Catalog) {
	fmt.Fprintf(w, "%s (%d kinds)\n", c.Name, len(c.Kinds))
	for _, k := range c.Kinds {
		fmt.Fprintf(w, "\n%s %s\n", k.Name, k.Color.Hex())
		rows := make([]string, 4)
		for _, shape := range k.Rotations {
			grid := [4][4]bool{}
			for _, p := range shape {
				if p.X >= 0 && p.X < 4 && p.Y >= 0 && p.Y < 4 {
					grid[p.Y][p.X] = true
				}
			}
			for y := range grid {
				var sb strings.Builder
				for x := range grid[y] {
					if grid[y][x] {
						fmt.Fprintf(&sb, "\033[48;2;%d;%d;%dm  \033[0m", k.Color.R, k.Color.G, k.Color.B)
					} else {
						sb.WriteString("· ")
					}
				}
				rows[y] += sb.String() + "  "
			}
		}
		for _, r := range rows {
			fmt.Fprintln(w, strings.TrimRight(r, " "))
		}
	}
}

// --- stats ---

func runStats(w io.Writer, c *catalog.Catalog) {
	states := 0
	for _, k := range c.Kinds {
		states += k.RotationCount()
	}
	fmt.Fprintf(w, "%s (%d kinds, %d rotation states)\n\n", c.Name, len(c.Kinds), states)

	for _, k := range c.Kinds {
		bw, bh := footprint(k)
		bar := strings.Repeat("█", k.RotationCount())
		fmt.Fprintf(w, "  %-6s %d states  %dx%d max footprint  %s\n", k.Name, k.RotationCount(), bw, bh, bar)
	}
}

// footprint is the largest bounding box over all rotation states.
func footprint(k *game.Kind) (w, h int) {
	for _, s := range k.Rotations {
		minX, minY, maxX, maxY := s[0].X, s[0].Y, s[0].X, s[0].Y
		for _, p := range s[1:] {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
		w, h = max(w, maxX-minX+1), max(h, maxY-minY+1)
	}
	return w, h
}

// --- all ---

func runAll(w io.Writer, dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading directory: %v\n", err)
		return 1
	}

	// Run validate first
	fmt.Fprintln(w, "=== VALIDATE ===")
	code := runValidate(w, dir, game.DefaultConfig())
	if code != 0 {
		return code
	}

	// Then viz + stats for each catalogue
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		c, err := catalog.Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(w, "\n=== VIZ: %s ===\n", entry.Name())
		runViz(w, c)
		fmt.Fprintf(w, "\n=== STATS: %s ===\n", entry.Name())
		runStats(w, c)
	}

	return 0
}
