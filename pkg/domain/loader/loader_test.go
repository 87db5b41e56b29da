package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shared "github.com/fitglue/coursemap/pkg"
	"github.com/fitglue/coursemap/pkg/domain/file_generators"
	"github.com/fitglue/coursemap/pkg/infrastructure/storage"
	"github.com/fitglue/coursemap/pkg/testing/fixtures"
	"github.com/fitglue/coursemap/pkg/testing/mocks"
)

const miniGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><type>cycling</type><trkseg>
    <trkpt lat="35.0000" lon="139.0000"><ele>10</ele><time>2024-04-07T06:30:00Z</time></trkpt>
    <trkpt lat="35.0010" lon="139.0010"><ele>12</ele><time>2024-04-07T06:30:10Z</time></trkpt>
  </trkseg></trk>
</gpx>`

func TestParse_Dispatch(t *testing.T) {
	fit, err := file_generators.GenerateActivityFit(fixtures.Loop(20))
	require.NoError(t, err)

	tr, err := Parse("ride.FIT", fit)
	require.NoError(t, err)
	assert.Equal(t, 20, tr.Len())

	tr, err = Parse("ride.gpx", []byte(miniGPX))
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Len())

	_, err = Parse("ride.tcx", []byte("<tcx/>"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse("ride", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_Local(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ride.gpx")
	require.NoError(t, os.WriteFile(p, []byte(miniGPX), 0o644))

	loc, err := storage.ParseLocation(p)
	require.NoError(t, err)

	tr, err := Load(context.Background(), storage.NewRouter(""), loc)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Len())
}

func TestLoad_Remote(t *testing.T) {
	fit, err := file_generators.GenerateActivityFit(fixtures.FiveSample())
	require.NoError(t, err)

	mem := &mocks.MemoryBlobStore{}
	require.NoError(t, mem.Write(context.Background(), "activities", "2024/run.fit", fit))
	router := &storage.Router{
		Local: &storage.LocalStore{},
		NewGCS: func(ctx context.Context) (shared.BlobStore, error) {
			return mem, nil
		},
	}

	loc, err := storage.ParseLocation("gs://activities/2024/run.fit")
	require.NoError(t, err)
	tr, err := Load(context.Background(), router, loc)
	require.NoError(t, err)
	assert.Equal(t, 5, tr.Len())
}

func TestLoad_Errors(t *testing.T) {
	router := storage.NewRouter("")

	_, err := Load(context.Background(), router, storage.Location{Bucket: t.TempDir(), Object: "notes.txt"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(context.Background(), router, storage.Location{Bucket: t.TempDir(), Object: "missing.fit"})
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
}
