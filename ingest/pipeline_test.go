package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFixture(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "enrol", "part1.csv"), enrolmentCSV)
	writeFile(t, filepath.Join(root, "demo", "part1.csv"), `date,state,district,pincode,demo_age_5_17,demo_age_17_
01-03-2025,West Bengal,Kolkata,700001,100,200
02-03-2025,Odisha,Khordha,751001,7,3
`)
	writeFile(t, filepath.Join(root, "bio", "part1.csv"), `date,state,district,pincode,bio_age_5_17,bio_age_17_
01-03-2025,West Bengal,Kolkata,700001,50,50
`)
	writeFile(t, filepath.Join(root, "pincode.csv"), `pincode,officetype,statename
700001,HO,WEST BENGAL
751001,BO,ODISHA
682001,XX,KERALA
`)
	writeFile(t, filepath.Join(root, "latlong.csv"), `statename,district,latitude,longitude
WEST BENGAL,Kolkata,22.5,88.3
WEST BENGAL,Kolkata,22.7,88.5
ODISHA,Khordha,"20°17'24""",85.8
KERALA,Ernakulam,0,0
`)
	writeFile(t, filepath.Join(root, "saturation.csv"), `state,saturation
Kerala,99.5
Orissa,88%
`)
	return Options{
		EnrolmentDir:   filepath.Join(root, "enrol"),
		DemographicDir: filepath.Join(root, "demo"),
		BiometricDir:   filepath.Join(root, "bio"),
		PincodeCSV:     filepath.Join(root, "pincode.csv"),
		LatLongCSV:     filepath.Join(root, "latlong.csv"),
		SaturationCSV:  filepath.Join(root, "saturation.csv"),
	}
}

func TestProcessorRun(t *testing.T) {
	p := NewProcessor(writeFixture(t), nil, zap.NewNop())
	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.States, 3)
	kerala, odisha, wb := ds.States[0], ds.States[1], ds.States[2]
	assert.Equal(t, "Kerala", kerala.State)
	assert.Equal(t, int64(5), kerala.Enrolments)
	assert.Equal(t, int64(5), kerala.ChildEnrolments)
	assert.Nil(t, kerala.RuralRatio)
	require.NotNil(t, kerala.Saturation)
	assert.Equal(t, 99.5, *kerala.Saturation)
	assert.InDelta(t, 0.5, kerala.AnomalyScore, 1e-9)

	assert.Equal(t, "Odisha", odisha.State)
	assert.Equal(t, int64(20), odisha.Enrolments)
	assert.Equal(t, int64(10), odisha.Updates)
	require.NotNil(t, odisha.RuralRatio)
	assert.Equal(t, 100.0, *odisha.RuralRatio)
	require.NotNil(t, odisha.Saturation)
	assert.Equal(t, 88.0, *odisha.Saturation)

	assert.Equal(t, "West Bengal", wb.State)
	assert.Equal(t, int64(60), wb.Enrolments)
	assert.Equal(t, int64(30), wb.ChildEnrolments)
	assert.Equal(t, int64(300), wb.DemographicUpdates)
	assert.Equal(t, int64(100), wb.BiometricUpdates)
	assert.Equal(t, int64(400), wb.Updates)
	require.NotNil(t, wb.UrbanRatio)
	assert.Equal(t, 100.0, *wb.UrbanRatio)

	assert.Equal(t, int64(85), ds.Summary.TotalEnrolments)
	assert.Equal(t, int64(410), ds.Summary.TotalUpdates)
	assert.Equal(t, int64(45), ds.Summary.TotalChildEnrolments)
	assert.Equal(t, 3, ds.Summary.TotalStates)
	assert.Equal(t, 3, ds.Summary.TotalDistricts)
	assert.NotEmpty(t, ds.Summary.LastUpdated)

	require.Len(t, ds.Districts, 3)
	kolkata := ds.Districts[0]
	assert.Equal(t, "Kolkata", kolkata.District)
	assert.Equal(t, int64(400), kolkata.Updates)
	assert.Equal(t, int64(10), kolkata.ChildEnrolments)
	assert.Equal(t, 2, kolkata.Offices)
	require.True(t, kolkata.Located())
	assert.InDelta(t, 22.6, *kolkata.Lat, 1e-9)
	assert.InDelta(t, 88.4, *kolkata.Lng, 1e-9)
	assert.Equal(t, 30.0, kolkata.Density)
	assert.InDelta(t, 0.333, kolkata.AnomalyScore, 1e-9)

	khordha := ds.Districts[1]
	require.True(t, khordha.Located())
	assert.InDelta(t, 20.29, *khordha.Lat, 1e-9)
	assert.False(t, ds.Districts[2].Located())

	require.Len(t, ds.TimeSeries, 2)
	assert.Equal(t, "2025-03-01", ds.TimeSeries[0].Date)
	assert.Equal(t, int64(60), ds.TimeSeries[0].Enrolments)
	assert.Equal(t, int64(400), ds.TimeSeries[0].Updates)
	assert.Equal(t, int64(25), ds.TimeSeries[1].Enrolments)
	assert.Len(t, ds.StateTimeSeries["Kerala"], 1)

	require.NotNil(t, ds.Velocity)
	assert.Equal(t, []string{"Odisha", "West Bengal"}, ds.Velocity.StateList)
	assert.Equal(t, int64(60), ds.Velocity.AllIndia.Summary.TotalUrban)
	assert.Equal(t, int64(20), ds.Velocity.AllIndia.Summary.TotalRural)
	require.NotNil(t, ds.Velocity.AllIndia.Summary.DateRange.Start)
	assert.Equal(t, "2025-03-01", *ds.Velocity.AllIndia.Summary.DateRange.Start)

	require.Contains(t, ds.Centroids, "West Bengal")
	c := ds.Centroids["West Bengal"]
	assert.InDelta(t, 22.6, c.Lat, 1e-9)
	assert.Equal(t, 25, c.ZoomScale)
	assert.NotContains(t, ds.Centroids, "KERALA")
}

func TestProcessorRun_EnrolmentOnly(t *testing.T) {
	opts := writeFixture(t)
	p := NewProcessor(Options{EnrolmentDir: opts.EnrolmentDir, MaxDistricts: 2, SeriesDays: 1}, nil, nil)
	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Districts, 2)
	assert.Len(t, ds.TimeSeries, 1)
	assert.Equal(t, "2025-03-02", ds.TimeSeries[0].Date)
	assert.Nil(t, ds.Velocity)
	assert.Empty(t, ds.Centroids)
}

func TestProcessorRun_MissingEnrolmentDir(t *testing.T) {
	_, err := NewProcessor(Options{}, nil, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestProcessorRun_MissingDirectory(t *testing.T) {
	_, err := NewProcessor(Options{EnrolmentDir: filepath.Join(t.TempDir(), "missing")}, nil, nil).Run(context.Background())
	assert.Error(t, err)
}
