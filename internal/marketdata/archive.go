package marketdata

import (
	"archive/zip"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/eddiefleurent/stamford_condor/internal/models"
)

// recordSize is the on-disk width of one sample: a little-endian int32
// timestamp followed by a little-endian float32 mid. No header, no padding,
// no terminator; record count is file length / recordSize.
const recordSize = 8

// ArchiveStore reads price series from one zip archive per trading date
// (<dir>/<YYYYMMDD>.zip), each containing one gzip-compressed file per
// strike named <date>/<C|P><strike>.
type ArchiveStore struct {
	dir string
}

// NewArchiveStore creates a store over the given archive directory.
func NewArchiveStore(dir string) *ArchiveStore {
	return &ArchiveStore{dir: dir}
}

// Load returns the series for one contract. A missing archive or missing
// strike entry yields an empty series and no error; a corrupt entry is an
// error.
func (s *ArchiveStore) Load(date string, strike int, kind models.OptionKind) (models.PriceSeries, error) {
	zr, err := zip.OpenReader(filepath.Join(s.dir, date+".zip"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening archive for %s: %w", date, err)
	}
	defer func() { _ = zr.Close() }()

	name := date + "/" + kind.Prefix() + strconv.Itoa(strike)
	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			entry = f
			break
		}
	}
	if entry == nil {
		// Strike not traded or out of the recorded range.
		return nil, nil
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s in %s.zip: %w", name, date, err)
	}
	defer func() { _ = rc.Close() }()

	gz, err := gzip.NewReader(rc)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s in %s.zip: %w", name, date, err)
	}
	defer func() { _ = gz.Close() }()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("reading %s in %s.zip: %w", name, date, err)
	}

	series, err := DecodeSeries(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s in %s.zip: %w", name, date, err)
	}
	return series, nil
}

// Dates lists the trading dates present in the archive directory, sorted.
func (s *ArchiveStore) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing archive directory %s: %w", s.dir, err)
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		dates = append(dates, strings.TrimSuffix(e.Name(), ".zip"))
	}
	sort.Strings(dates)
	return dates, nil
}

// DecodeSeries parses a flat sequence of fixed-width records into a series.
func DecodeSeries(raw []byte) (models.PriceSeries, error) {
	if len(raw)%recordSize != 0 {
		return nil, fmt.Errorf("truncated record data: %d bytes is not a multiple of %d", len(raw), recordSize)
	}

	series := make(models.PriceSeries, 0, len(raw)/recordSize)
	for i := 0; i < len(raw); i += recordSize {
		ts := int32(binary.LittleEndian.Uint32(raw[i:]))
		mid := math.Float32frombits(binary.LittleEndian.Uint32(raw[i+4:]))
		series = append(series, models.PriceSample{Time: ts, Mid: float64(mid)})
	}
	return series, nil
}

// EncodeSeries is the inverse of DecodeSeries; the downsampling utility and
// tests use it to write archive payloads.
func EncodeSeries(series models.PriceSeries) []byte {
	raw := make([]byte, 0, len(series)*recordSize)
	var buf [recordSize]byte
	for _, sample := range series {
		binary.LittleEndian.PutUint32(buf[:4], uint32(sample.Time))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(sample.Mid)))
		raw = append(raw, buf[:]...)
	}
	return raw
}
