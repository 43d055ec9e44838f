package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paldeepak079/AadharIQ/models"
)

func newMock(t *testing.T) (*PostgresSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSource(db), mock
}

func TestPostgresSource_EnsureSchema(t *testing.T) {
	src, mock := newMock(t)
	for _, stmt := range schema {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, src.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_EnsureSchemaError(t *testing.T) {
	src, mock := newMock(t)
	mock.ExpectExec(schema[0]).WillReturnError(errors.New("permission denied"))

	err := src.EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Load(t *testing.T) {
	src, mock := newMock(t)

	mock.ExpectQuery(selectStates).WillReturnRows(sqlmock.NewRows([]string{
		"state", "enrolments", "updates", "child_enrolments", "enrolment_0_5", "enrolment_5_17",
		"enrolment_18_plus", "biometric_updates", "demographic_updates", "rural_ratio", "urban_ratio",
		"anomaly_score", "saturation",
	}).AddRow("Kerala", 100, 50, 40, 10, 30, 60, 20, 30, 62.5, 37.5, 0.2, nil))

	mock.ExpectQuery(selectDistricts).WillReturnRows(sqlmock.NewRows([]string{
		"state", "district", "enrolments", "updates", "child_enrolments", "lat", "lng", "offices",
		"density", "anomaly_score",
	}).AddRow("Kerala", "Ernakulam", 100, 50, 10, 9.98, 76.3, 2, 50.0, 0.1).
		AddRow("Kerala", "Idukki", 10, 1, 1, nil, nil, 0, 0.0, 0.0))

	mock.ExpectQuery(selectSeries).WillReturnRows(sqlmock.NewRows([]string{"region", "day", "enrolments", "updates"}).
		AddRow(models.AllIndia, "2025-03-01", 100, 50).
		AddRow("Kerala", "2025-03-01", 100, 50))

	mock.ExpectQuery(selectMeta).WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
		AddRow("summary", []byte(`{"totalEnrolments":100,"totalStates":1,"lastUpdated":"2025-03-02T00:00:00Z"}`)).
		AddRow("centroids", []byte(`{"Kerala":{"lat":10,"lng":76,"bounds":{"latMin":8,"latMax":12,"lngMin":74,"lngMax":77},"zoomScale":12}}`)).
		AddRow("unused", []byte(`{}`)))

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, ds.States, 1)
	s := ds.States[0]
	assert.Equal(t, int64(100), s.Enrolments)
	require.NotNil(t, s.RuralRatio)
	assert.Equal(t, 62.5, *s.RuralRatio)
	assert.Nil(t, s.Saturation)

	require.Len(t, ds.Districts, 2)
	assert.True(t, ds.Districts[0].Located())
	assert.False(t, ds.Districts[1].Located())

	assert.Len(t, ds.TimeSeries, 1)
	assert.Len(t, ds.StateTimeSeries["Kerala"], 1)
	assert.Equal(t, "2025-03-02T00:00:00Z", ds.Summary.LastUpdated)
	assert.Equal(t, 12, ds.Centroids["Kerala"].ZoomScale)
	assert.Nil(t, ds.Velocity)
}

func TestPostgresSource_LoadEmpty(t *testing.T) {
	src, mock := newMock(t)
	mock.ExpectQuery(selectStates).WillReturnRows(sqlmock.NewRows([]string{"state"}))

	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Save(t *testing.T) {
	src, mock := newMock(t)

	mock.ExpectBegin()
	for _, stmt := range truncateTables {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectPrepare(insertState).ExpectExec().
		WithArgs("Kerala", int64(100), int64(50), int64(40), int64(0), int64(0), int64(0), int64(0), int64(0), 62.5, nil, 0.0, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare(insertDistrict).ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare(insertSeries).ExpectExec().
		WithArgs(models.AllIndia, "2025-03-01", int64(100), int64(50)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare(insertMeta).ExpectExec().
		WithArgs("summary", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, src.Save(context.Background(), sampleDataset()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_SaveRollsBack(t *testing.T) {
	src, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(truncateTables[0]).WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err := src.Save(context.Background(), sampleDataset())
	assert.ErrorContains(t, err, "lock timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
