package boundary

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFetchZIP(t *testing.T) {
	zipContent := createTestZIP(t, map[string]string{
		"areas.geojson": `{"type":"FeatureCollection","features":[]}`,
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(zipContent)
	}))
	defer srv.Close()

	d := NewDownloader(10)
	path, err := d.Fetch(context.Background(), srv.URL+"/lsoa_boundaries.zip", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, path, ".geojson")
	assert.FileExists(t, path)
}

func TestFetchSkipsExistingFile(t *testing.T) {
	zipContent := createTestZIP(t, map[string]string{"areas.shp": "fake"})

	var callCount int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		callCount++
		_, _ = w.Write(zipContent)
	}))
	defer srv.Close()

	destDir := t.TempDir()
	d := NewDownloader(10)
	url := srv.URL + "/lsoa_boundaries.zip"

	_, err := d.Fetch(context.Background(), url, destDir)
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)

	_, err = d.Fetch(context.Background(), url, destDir)
	require.NoError(t, err)
	assert.Equal(t, 1, callCount) // no additional HTTP call
}

func TestFetchPlainFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	d := NewDownloader(10)
	path, err := d.Fetch(context.Background(), srv.URL+"/areas.geojson", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "areas.geojson", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDownloader(10)
	_, err := d.Fetch(context.Background(), srv.URL+"/bad.zip", t.TempDir())
	assert.Error(t, err)
}

func TestFetchUnsupportedScheme(t *testing.T) {
	d := NewDownloader(10)
	_, err := d.Fetch(context.Background(), "gopher://example.com/areas.zip", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported url scheme")
}
