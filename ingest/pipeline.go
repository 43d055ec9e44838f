// Package ingest turns the raw UIDAI CSV extracts into a models.Dataset.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/models"
)

const (
	DefaultMaxDistricts = 500
	DefaultSeriesDays   = 90
)

type Options struct {
	EnrolmentDir   string
	DemographicDir string
	BiometricDir   string

	// Optional inputs.
	LatLongCSV    string
	PincodeCSV    string
	SaturationCSV string

	MaxDistricts int
	SeriesDays   int
}

type Processor struct {
	opts   Options
	norm   *Normalizer
	logger *zap.Logger
	now    func() time.Time
}

func NewProcessor(opts Options, norm *Normalizer, logger *zap.Logger) *Processor {
	if opts.MaxDistricts <= 0 {
		opts.MaxDistricts = DefaultMaxDistricts
	}
	if opts.SeriesDays <= 0 {
		opts.SeriesDays = DefaultSeriesDays
	}
	if norm == nil {
		norm = DefaultNormalizer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{opts: opts, norm: norm, logger: logger, now: time.Now}
}

type families struct {
	enrol, demo, bio []Record
}

func (p *Processor) loadFamilies(ctx context.Context) (*families, error) {
	var f families
	g, gctx := errgroup.WithContext(ctx)

	load := func(dir string, fam Family, dst *[]Record) {
		if dir == "" {
			return
		}
		g.Go(func() error {
			recs, stats, err := LoadFamily(gctx, dir, fam, p.norm)
			if err != nil {
				return fmt.Errorf("load %s data: %w", fam.Name, err)
			}
			p.logger.Info("Loaded CSV family",
				zap.String("family", fam.Name),
				zap.Int("files", stats.Files),
				zap.Int("rows", stats.Rows),
				zap.Int("kept", stats.Kept),
				zap.Int("bad_state", stats.BadState),
				zap.Int("bad_date", stats.BadDate),
				zap.Int("no_district", stats.NoDistrict),
				zap.Int("bad_count", stats.BadCount),
				zap.Int("duplicates", stats.Duplicates))
			*dst = recs
			return nil
		})
	}
	load(p.opts.EnrolmentDir, Enrolment, &f.enrol)
	load(p.opts.DemographicDir, Demographic, &f.demo)
	load(p.opts.BiometricDir, Biometric, &f.bio)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Run loads every configured input and builds the dataset.
func (p *Processor) Run(ctx context.Context) (*models.Dataset, error) {
	if p.opts.EnrolmentDir == "" {
		return nil, fmt.Errorf("enrolment directory is required")
	}
	start := p.now()

	f, err := p.loadFamilies(ctx)
	if err != nil {
		return nil, err
	}

	states := aggregateStates(f.enrol, f.demo, f.bio)
	districts := aggregateDistricts(f.enrol, f.demo, f.bio, p.opts.MaxDistricts)
	national, perState := buildSeries(f.enrol, f.demo, f.bio, p.opts.SeriesDays)

	ds := &models.Dataset{
		TimeSeries:      national,
		StateTimeSeries: perState,
	}

	if p.opts.PincodeCSV != "" {
		areas, err := readWith(p.opts.PincodeCSV, ReadPincodeAreas)
		if err != nil {
			return nil, err
		}
		ds.Velocity = BuildVelocity(f.enrol, areas)
		ApplyRuralRatios(states, ds.Velocity)
		p.logger.Info("Built urban/rural velocity",
			zap.Int("pincodes", len(areas)),
			zap.Int("states", len(ds.Velocity.StateList)),
			zap.Int64("urban", ds.Velocity.AllIndia.Summary.TotalUrban),
			zap.Int64("rural", ds.Velocity.AllIndia.Summary.TotalRural))
	}

	if p.opts.LatLongCSV != "" {
		offices, err := readWith(p.opts.LatLongCSV, func(r io.Reader) ([]PostOffice, error) {
			return ReadPostOffices(r, p.norm)
		})
		if err != nil {
			return nil, err
		}
		districts, ds.Centroids = ApplyGeography(districts, states, offices)
		districts = analytics.ScoreDistrictDensity(districts)
		p.logger.Info("Applied district geography",
			zap.Int("post_offices", len(offices)),
			zap.Int("centroids", len(ds.Centroids)))
	}

	if p.opts.SaturationCSV != "" {
		sat, err := readWith(p.opts.SaturationCSV, func(r io.Reader) (map[string]float64, error) {
			return ReadSaturation(r, p.norm)
		})
		if err != nil {
			return nil, err
		}
		ApplySaturation(states, sat)
	}

	ds.States = analytics.ScoreStates(states)
	ds.Districts = districts
	ds.Summary = models.Summarize(ds.States, ds.Districts, p.now().UTC().Format(time.RFC3339))

	p.logger.Info("Dataset processed",
		zap.Int("states", ds.Summary.TotalStates),
		zap.Int("districts", ds.Summary.TotalDistricts),
		zap.Int64("enrolments", ds.Summary.TotalEnrolments),
		zap.Int64("updates", ds.Summary.TotalUpdates),
		zap.Int("series_points", len(ds.TimeSeries)),
		zap.Duration("took", p.now().Sub(start)))
	return ds, nil
}

func readWith[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
