package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enrolmentCSV = `Date, State ,District,Pincode,Age 0 5,age_5_17,age_18_greater
01-03-2025,WEST BENGAL,Kolkata,700001,10,20,30
02-03-2025,Orissa,Khordha,751001,5,5,10
bad-date,Kerala,Ernakulam,682001,1,1,1
03-03-2025,Jaipur,X,1,1,1,1
03-03-2025,Kerala,,682001,1,1,1
03-03-2025,Kerala,Ernakulam,682001,-1,1,1
03-03-2025,Kerala,Ernakulam,682001,abc,1,1
02-03-2025,Orissa,Khordha,751001,5,5,10
02-03-2025, Kerala ,Ernakulam,682001,2,3,
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStandardizeColumn(t *testing.T) {
	assert.Equal(t, "age_0_5", StandardizeColumn(" Age 0 5 "))
	assert.Equal(t, "state", StandardizeColumn("STATE"))
}

func TestReaderCleansRows(t *testing.T) {
	rd := newReader(Enrolment, DefaultNormalizer())
	recs, stats, err := rd.read(strings.NewReader(enrolmentCSV))
	require.NoError(t, err)

	assert.Equal(t, 9, stats.Rows)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, 1, stats.BadDate)
	assert.Equal(t, 1, stats.BadState)
	assert.Equal(t, 1, stats.NoDistrict)
	assert.Equal(t, 2, stats.BadCount)
	assert.Equal(t, 1, stats.Duplicates)

	require.Len(t, recs, 3)
	assert.Equal(t, "West Bengal", recs[0].State)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), recs[0].Date)
	assert.Equal(t, int64(60), recs[0].Total())
	assert.Equal(t, "Odisha", recs[1].State)
	assert.Equal(t, "Kerala", recs[2].State)
	assert.Equal(t, int64(0), recs[2].Counts["age_18_greater"])
	assert.Equal(t, int64(5), recs[2].Total())
}

func TestLoadFamilyWalksRecursively(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "date,state,district,pincode,demo_age_5_17,demo_age_17_\n01-03-2025,Kerala,Ernakulam,682001,1,2\n")
	writeFile(t, filepath.Join(dir, "nested", "b.CSV"), "date,state,district,pincode,demo_age_5_17,demo_age_17_\n02-03-2025,Kerala,Ernakulam,682001,3,4\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	recs, stats, err := LoadFamily(context.Background(), dir, Demographic, DefaultNormalizer())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(3), recs[0].Total())
	assert.Equal(t, int64(7), recs[1].Total())
}

func TestLoadFamily_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "date,state,district\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := LoadFamily(ctx, dir, Enrolment, DefaultNormalizer())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyOffice(t *testing.T) {
	a, ok := ClassifyOffice(" bo ")
	assert.True(t, ok)
	assert.Equal(t, Rural, a)

	a, ok = ClassifyOffice("HO")
	assert.True(t, ok)
	assert.Equal(t, Urban, a)

	_, ok = ClassifyOffice("PO")
	assert.False(t, ok)
}
