// prune_strikes - A utility to shrink extracted archive trees.
// Strike files more than a cutoff away from the date's configured search
// bounds can never be reached by a ladder scan, so they only waste disk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eddiefleurent/stamford_condor/internal/config"
)

const defaultCutoff = 500

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
		dir        = flag.String("dir", "", "Extracted archive tree: <dir>/<date>/<C|P><strike>")
		cutoff     = flag.Int("cutoff", defaultCutoff, "Strike distance from the bounds beyond which files are removed")
		dryRun     = flag.Bool("dry-run", false, "Show what would be removed without removing anything")
	)
	flag.Parse()

	if *dir == "" {
		log.Fatal("missing required -dir flag")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dates, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *dir, err)
	}

	removed, kept := 0, 0
	for _, dateEntry := range dates {
		if !dateEntry.IsDir() {
			continue
		}
		date := dateEntry.Name()

		bound, err := cfg.BoundFor(date)
		if err != nil {
			log.Fatalf("Cannot prune %s: %v", date, err)
		}

		files, err := os.ReadDir(filepath.Join(*dir, date))
		if err != nil {
			log.Fatalf("Failed to read %s: %v", date, err)
		}

		for _, f := range files {
			strike, ok := parseStrike(f.Name())
			if !ok {
				log.Printf("Skipping unrecognized file %s/%s", date, f.Name())
				continue
			}

			if strike >= bound.Lower-*cutoff && strike <= bound.Upper+*cutoff {
				kept++
				continue
			}

			path := filepath.Join(*dir, date, f.Name())
			if *dryRun {
				fmt.Printf("would remove %s\n", path)
			} else if err := os.Remove(path); err != nil {
				log.Fatalf("Failed to remove %s: %v", path, err)
			}
			removed++
		}
	}

	verb := "Removed"
	if *dryRun {
		verb = "Would remove"
	}
	fmt.Printf("%s %d files, kept %d\n", verb, removed, kept)
}

// parseStrike extracts the strike from a series file name like C5030 or
// P4970.
func parseStrike(name string) (int, bool) {
	if len(name) < 2 || (name[0] != 'C' && name[0] != 'P') {
		return 0, false
	}
	strike, err := strconv.Atoi(name[1:])
	if err != nil {
		return 0, false
	}
	return strike, true
}
