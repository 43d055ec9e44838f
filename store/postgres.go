package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Paldeepak079/AadharIQ/config"
	"github.com/Paldeepak079/AadharIQ/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS aadhaar_states (
		state TEXT PRIMARY KEY,
		enrolments BIGINT NOT NULL,
		updates BIGINT NOT NULL,
		child_enrolments BIGINT NOT NULL,
		enrolment_0_5 BIGINT NOT NULL,
		enrolment_5_17 BIGINT NOT NULL,
		enrolment_18_plus BIGINT NOT NULL,
		biometric_updates BIGINT NOT NULL,
		demographic_updates BIGINT NOT NULL,
		rural_ratio DOUBLE PRECISION,
		urban_ratio DOUBLE PRECISION,
		anomaly_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		saturation DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS aadhaar_districts (
		state TEXT NOT NULL,
		district TEXT NOT NULL,
		enrolments BIGINT NOT NULL,
		updates BIGINT NOT NULL,
		child_enrolments BIGINT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		offices INTEGER NOT NULL DEFAULT 0,
		density DOUBLE PRECISION NOT NULL DEFAULT 0,
		anomaly_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (state, district)
	)`,
	`CREATE TABLE IF NOT EXISTS aadhaar_timeseries (
		region TEXT NOT NULL,
		day TEXT NOT NULL,
		enrolments BIGINT NOT NULL,
		updates BIGINT NOT NULL,
		PRIMARY KEY (region, day)
	)`,
	`CREATE TABLE IF NOT EXISTS aadhaar_meta (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_aadhaar_districts_state ON aadhaar_districts (state)`,
}

const (
	selectStates = `SELECT state, enrolments, updates, child_enrolments, enrolment_0_5, enrolment_5_17,
		enrolment_18_plus, biometric_updates, demographic_updates, rural_ratio, urban_ratio,
		anomaly_score, saturation FROM aadhaar_states ORDER BY state`
	selectDistricts = `SELECT state, district, enrolments, updates, child_enrolments, lat, lng, offices,
		density, anomaly_score FROM aadhaar_districts ORDER BY enrolments DESC, state, district`
	selectSeries = `SELECT region, day, enrolments, updates FROM aadhaar_timeseries ORDER BY region, day`
	selectMeta   = `SELECT key, value FROM aadhaar_meta`

	insertState = `INSERT INTO aadhaar_states (state, enrolments, updates, child_enrolments, enrolment_0_5,
		enrolment_5_17, enrolment_18_plus, biometric_updates, demographic_updates, rural_ratio,
		urban_ratio, anomaly_score, saturation) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	insertDistrict = `INSERT INTO aadhaar_districts (state, district, enrolments, updates, child_enrolments,
		lat, lng, offices, density, anomaly_score) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	insertSeries = `INSERT INTO aadhaar_timeseries (region, day, enrolments, updates) VALUES ($1, $2, $3, $4)`
	insertMeta   = `INSERT INTO aadhaar_meta (key, value) VALUES ($1, $2)`
)

var truncateTables = []string{
	`DELETE FROM aadhaar_states`,
	`DELETE FROM aadhaar_districts`,
	`DELETE FROM aadhaar_timeseries`,
	`DELETE FROM aadhaar_meta`,
}

const (
	metaSummary   = "summary"
	metaVelocity  = "velocity"
	metaCentroids = "centroids"
)

// PostgresSource stores the dataset in relational tables. Velocity,
// centroids and the summary live as JSONB documents in aadhaar_meta.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (p *PostgresSource) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (p *PostgresSource) Load(ctx context.Context) (*models.Dataset, error) {
	ds := &models.Dataset{}

	states, err := p.loadStates(ctx)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("postgres dataset: %w", ErrNotFound)
	}
	ds.States = states

	if ds.Districts, err = p.loadDistricts(ctx); err != nil {
		return nil, err
	}
	if err := p.loadSeries(ctx, ds); err != nil {
		return nil, err
	}
	if err := p.loadMeta(ctx, ds); err != nil {
		return nil, err
	}
	if ds.Summary.TotalStates == 0 {
		ds.Summary = models.Summarize(ds.States, ds.Districts, "")
	}
	return ds, nil
}

func (p *PostgresSource) loadStates(ctx context.Context) ([]models.StateStats, error) {
	rows, err := p.db.QueryContext(ctx, selectStates)
	if err != nil {
		return nil, fmt.Errorf("query states: %w", err)
	}
	defer rows.Close()

	var out []models.StateStats
	for rows.Next() {
		var s models.StateStats
		var rural, urban, sat sql.NullFloat64
		if err := rows.Scan(&s.State, &s.Enrolments, &s.Updates, &s.ChildEnrolments,
			&s.Enrolment0To5, &s.Enrolment5To17, &s.Enrolment18Plus, &s.BiometricUpdates,
			&s.DemographicUpdates, &rural, &urban, &s.AnomalyScore, &sat); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		s.RuralRatio = nullable(rural)
		s.UrbanRatio = nullable(urban)
		s.Saturation = nullable(sat)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *PostgresSource) loadDistricts(ctx context.Context) ([]models.District, error) {
	rows, err := p.db.QueryContext(ctx, selectDistricts)
	if err != nil {
		return nil, fmt.Errorf("query districts: %w", err)
	}
	defer rows.Close()

	var out []models.District
	for rows.Next() {
		var d models.District
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&d.State, &d.District, &d.Enrolments, &d.Updates, &d.ChildEnrolments,
			&lat, &lng, &d.Offices, &d.Density, &d.AnomalyScore); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		d.Lat = nullable(lat)
		d.Lng = nullable(lng)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *PostgresSource) loadSeries(ctx context.Context, ds *models.Dataset) error {
	rows, err := p.db.QueryContext(ctx, selectSeries)
	if err != nil {
		return fmt.Errorf("query time series: %w", err)
	}
	defer rows.Close()

	ds.StateTimeSeries = make(map[string][]models.TimePoint)
	for rows.Next() {
		var region string
		var tp models.TimePoint
		if err := rows.Scan(&region, &tp.Date, &tp.Enrolments, &tp.Updates); err != nil {
			return fmt.Errorf("scan time point: %w", err)
		}
		if region == models.AllIndia {
			ds.TimeSeries = append(ds.TimeSeries, tp)
		} else {
			ds.StateTimeSeries[region] = append(ds.StateTimeSeries[region], tp)
		}
	}
	return rows.Err()
}

func (p *PostgresSource) loadMeta(ctx context.Context, ds *models.Dataset) error {
	rows, err := p.db.QueryContext(ctx, selectMeta)
	if err != nil {
		return fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan metadata: %w", err)
		}
		var target interface{}
		switch key {
		case metaSummary:
			target = &ds.Summary
		case metaVelocity:
			ds.Velocity = &models.VelocityReport{}
			target = ds.Velocity
		case metaCentroids:
			target = &ds.Centroids
		default:
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return rows.Err()
}

// Save replaces the stored dataset in one transaction.
func (p *PostgresSource) Save(ctx context.Context, ds *models.Dataset) error {
	return config.WithTransaction(ctx, p.db, func(tx *sql.Tx) error {
		for _, stmt := range truncateTables {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("clear tables: %w", err)
			}
		}

		if err := insertRows(ctx, tx, insertState, len(ds.States), func(i int) []interface{} {
			s := ds.States[i]
			return []interface{}{s.State, s.Enrolments, s.Updates, s.ChildEnrolments, s.Enrolment0To5,
				s.Enrolment5To17, s.Enrolment18Plus, s.BiometricUpdates, s.DemographicUpdates,
				s.RuralRatio, s.UrbanRatio, s.AnomalyScore, s.Saturation}
		}); err != nil {
			return fmt.Errorf("insert states: %w", err)
		}

		if err := insertRows(ctx, tx, insertDistrict, len(ds.Districts), func(i int) []interface{} {
			d := ds.Districts[i]
			return []interface{}{d.State, d.District, d.Enrolments, d.Updates, d.ChildEnrolments,
				d.Lat, d.Lng, d.Offices, d.Density, d.AnomalyScore}
		}); err != nil {
			return fmt.Errorf("insert districts: %w", err)
		}

		series := flattenSeries(ds)
		if err := insertRows(ctx, tx, insertSeries, len(series), func(i int) []interface{} {
			return series[i]
		}); err != nil {
			return fmt.Errorf("insert time series: %w", err)
		}

		meta, err := metaDocuments(ds)
		if err != nil {
			return err
		}
		if err := insertRows(ctx, tx, insertMeta, len(meta), func(i int) []interface{} {
			return meta[i]
		}); err != nil {
			return fmt.Errorf("insert metadata: %w", err)
		}
		return nil
	})
}

func insertRows(ctx context.Context, tx *sql.Tx, query string, n int, args func(int) []interface{}) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

func flattenSeries(ds *models.Dataset) [][]interface{} {
	var out [][]interface{}
	for _, tp := range ds.TimeSeries {
		out = append(out, []interface{}{models.AllIndia, tp.Date, tp.Enrolments, tp.Updates})
	}
	for region, points := range ds.StateTimeSeries {
		for _, tp := range points {
			out = append(out, []interface{}{region, tp.Date, tp.Enrolments, tp.Updates})
		}
	}
	return out
}

func metaDocuments(ds *models.Dataset) ([][]interface{}, error) {
	docs := []struct {
		key   string
		value interface{}
		skip  bool
	}{
		{metaSummary, ds.Summary, false},
		{metaVelocity, ds.Velocity, ds.Velocity == nil},
		{metaCentroids, ds.Centroids, len(ds.Centroids) == 0},
	}
	var out [][]interface{}
	for _, d := range docs {
		if d.skip {
			continue
		}
		raw, err := json.Marshal(d.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", d.key, err)
		}
		out = append(out, []interface{}{d.key, raw})
	}
	return out, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
