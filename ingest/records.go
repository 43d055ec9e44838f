package ingest

import (
	"context"
	"encoding/csv"
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
	"time"
)

const sourceDateLayout = "02-01-2006"

// Family describes one of the UIDAI CSV extracts.
type Family struct {
	Name    string
	Columns []string
}

var (
	Enrolment   = Family{Name: "enrolment", Columns: []string{"age_0_5", "age_5_17", "age_18_greater"}}
	Demographic = Family{Name: "demographic", Columns: []string{"demo_age_5_17", "demo_age_17_"}}
	Biometric   = Family{Name: "biometric", Columns: []string{"bio_age_5_17", "bio_age_17_"}}
)

// Record is one cleaned CSV row.
type Record struct {
	Date     time.Time
	State    string
	District string
	Pincode  string
	Counts   map[string]int64
}

// Total sums every count column on the row.
func (r Record) Total() int64 {
	var t int64
	for _, v := range r.Counts {
		t += v
	}
	return t
}

// ReadStats counts what cleaning did to a batch of rows.
type ReadStats struct {
	Files       int
	Rows        int
	Kept        int
	BadState    int
	BadDate     int
	NoDistrict  int
	BadCount    int
	Duplicates  int
	ParseErrors int
}

func (s *ReadStats) add(o ReadStats) {
	s.Files += o.Files
	s.Rows += o.Rows
	s.Kept += o.Kept
	s.BadState += o.BadState
	s.BadDate += o.BadDate
	s.NoDistrict += o.NoDistrict
	s.BadCount += o.BadCount
	s.Duplicates += o.Duplicates
	s.ParseErrors += o.ParseErrors
}

// StandardizeColumn lower-cases a header, trims it and replaces spaces with
// underscores.
func StandardizeColumn(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

type reader struct {
	family Family
	norm   *Normalizer
	seen   map[string]struct{}
}

func newReader(family Family, norm *Normalizer) *reader {
	return &reader{family: family, norm: norm, seen: make(map[string]struct{})}
}

// read parses one CSV stream. Duplicate detection spans every stream read by
// the same reader.
func (rd *reader) read(r io.Reader) ([]Record, ReadStats, error) {
	var stats ReadStats
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[StandardizeColumn(h)] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.ParseErrors++
			continue
		}
		stats.Rows++

		state, ok := rd.norm.Normalize(field(row, "state"))
		if !ok {
			stats.BadState++
			continue
		}
		date, err := time.Parse(sourceDateLayout, field(row, "date"))
		if err != nil {
			stats.BadDate++
			continue
		}
		district := field(row, "district")
		if district == "" {
			stats.NoDistrict++
			continue
		}

		rec := Record{
			Date:     date,
			State:    state,
			District: district,
			Pincode:  field(row, "pincode"),
			Counts:   make(map[string]int64, len(rd.family.Columns)),
		}
		valid := true
		for _, col := range rd.family.Columns {
			raw := field(row, col)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				valid = false
				break
			}
			rec.Counts[col] = int64(v)
		}
		if !valid {
			stats.BadCount++
			continue
		}

		key := strings.Join([]string{rec.Date.Format(sourceDateLayout), rec.State, rec.District, rec.Pincode, countsKey(rd.family, rec.Counts)}, "\x1f")
		if _, dup := rd.seen[key]; dup {
			stats.Duplicates++
			continue
		}
		rd.seen[key] = struct{}{}

		out = append(out, rec)
		stats.Kept++
	}
	return out, stats, nil
}

func countsKey(f Family, counts map[string]int64) string {
	parts := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		parts[i] = strconv.FormatInt(counts[c], 10)
	}
	return strings.Join(parts, ",")
}

// csvFiles lists every .csv file under dir, sorted for a stable read order.
func csvFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFamily reads and cleans every CSV file of one family under dir.
func LoadFamily(ctx context.Context, dir string, family Family, norm *Normalizer) ([]Record, ReadStats, error) {
	var total ReadStats
	files, err := csvFiles(dir)
	if err != nil {
		return nil, total, err
	}

	rd := newReader(family, norm)
	var out []Record
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, total, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, total, fmt.Errorf("open %s: %w", path, err)
		}
		recs, stats, err := rd.read(f)
		f.Close()
		if err != nil {
			return nil, total, fmt.Errorf("%s: %w", path, err)
		}
		stats.Files = 1
		total.add(stats)
		out = append(out, recs...)
	}
	return out, total, nil
}
