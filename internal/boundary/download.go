package boundary

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Downloader fetches boundary dataset archives over HTTP(S) or FTP.
// Requests are throttled so bulk mirrors aren't hammered when a run
// fetches several regional extracts.
type Downloader struct {
	limiter *rate.Limiter
}

// NewDownloader creates a Downloader capped at ratePerSec requests per
// second (minimum 1).
func NewDownloader(ratePerSec float64) *Downloader {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &Downloader{limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1)}
}

// Fetch downloads a dataset archive and extracts it. Returns the path to
// the boundary file (.geojson or .shp) inside the extracted directory;
// non-archive downloads are returned as-is.
func (d *Downloader) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	log := zap.L().With(
		zap.String("component", "boundary.download"),
		zap.String("url", rawURL),
	)

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "boundary: parse url %s", rawURL)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "boundary: create dest dir")
	}

	name := filepath.Base(u.Path)
	destPath := filepath.Join(destDir, name)

	// Skip download if the file already exists with content.
	if info, err := os.Stat(destPath); err == nil && info.Size() > 0 {
		log.Debug("file already exists, skipping download", zap.String("path", destPath))
	} else {
		if err := d.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "boundary: rate limiter")
		}
		log.Info("downloading boundary dataset")

		switch u.Scheme {
		case "http", "https":
			err = downloadHTTP(ctx, rawURL, destPath)
		case "ftp":
			err = downloadFTP(u, destPath)
		default:
			err = eris.Errorf("boundary: unsupported url scheme %q", u.Scheme)
		}
		if err != nil {
			return "", err
		}
	}

	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		return destPath, nil
	}

	// Extract ZIP and locate the boundary file inside.
	extractDir := filepath.Join(destDir, strings.TrimSuffix(name, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "boundary: create extract dir")
	}
	if err := extractZIP(destPath, extractDir); err != nil {
		return "", eris.Wrap(err, "boundary: extract ZIP")
	}

	for _, ext := range []string{".geojson", ".json", ".shp"} {
		if path, err := findFileByExt(extractDir, ext); err == nil {
			return path, nil
		}
	}
	return "", eris.Errorf("boundary: no boundary file found in %s", extractDir)
}

// downloadHTTP downloads a URL to a local file.
func downloadHTTP(ctx context.Context, rawURL, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "boundary: build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "boundary: download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("boundary: download returned status %d", resp.StatusCode)
	}

	return writeStream(dest, resp.Body)
}

// downloadFTP retrieves a file from an FTP mirror.
func downloadFTP(u *url.URL, dest string) error {
	addr := u.Host
	if u.Port() == "" {
		addr += ":21"
	}

	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return eris.Wrapf(err, "boundary: ftp dial %s", addr)
	}
	defer func() { _ = conn.Quit() }()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		return eris.Wrap(err, "boundary: ftp login")
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return eris.Wrapf(err, "boundary: ftp retrieve %s", u.Path)
	}
	defer resp.Close() //nolint:errcheck

	return writeStream(dest, resp)
}

func writeStream(dest string, r io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "boundary: create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, r); err != nil {
		return eris.Wrap(err, "boundary: write file")
	}
	return nil
}

// extractZIP extracts a ZIP archive to the destination directory.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		name := filepath.Base(f.Name)
		destPath := filepath.Join(destDir, name)

		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
