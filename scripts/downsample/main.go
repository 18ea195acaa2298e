// downsample - A utility to thin dense intraday series files.
// Archives recorded at full tick resolution are far denser than the
// simulation needs; keeping one sample per minimum interval cuts archive
// size without changing entry or exit behavior at coarse gates.
package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
	"github.com/eddiefleurent/stamford_condor/internal/models"
)

// defaultMinGap is one minute on the HHMMSSmmm clock scale.
const defaultMinGap = 60000

func main() {
	var (
		dir    = flag.String("dir", "", "Extracted archive tree: <dir>/<date>/<C|P><strike>")
		minGap = flag.Int("min-gap", defaultMinGap, "Minimum timestamp distance between kept samples")
		dryRun = flag.Bool("dry-run", false, "Report size savings without rewriting anything")
	)
	flag.Parse()

	if *dir == "" {
		log.Fatal("missing required -dir flag")
	}

	var before, after int
	err := filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		series, err := readSeries(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		thinned := downsample(series, int32(*minGap))
		before += len(series)
		after += len(thinned)

		if *dryRun || len(thinned) == len(series) {
			return nil
		}
		return writeSeries(path, thinned)
	})
	if err != nil {
		log.Fatalf("Downsample failed: %v", err)
	}

	fmt.Printf("%d samples -> %d samples\n", before, after)
}

// downsample keeps the first sample and every later sample at least minGap
// timestamp units after the previously kept one.
func downsample(series models.PriceSeries, minGap int32) models.PriceSeries {
	if len(series) == 0 {
		return series
	}

	kept := models.PriceSeries{series[0]}
	last := series[0].Time
	for _, s := range series[1:] {
		if s.Time-last >= minGap {
			kept = append(kept, s)
			last = s.Time
		}
	}
	return kept
}

func readSeries(path string) (models.PriceSeries, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from walking the user-provided tree
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}
	return marketdata.DecodeSeries(raw)
}

func writeSeries(path string, series models.PriceSeries) error {
	f, err := os.Create(path) // #nosec G304 -- path comes from walking the user-provided tree
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(marketdata.EncodeSeries(series)); err != nil {
		_ = gz.Close()
		_ = f.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
