// Streaming downloader for audio resources
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/desertthunder/siren/internal/shared"
)

const (
	partSuffix          = ".part"
	defaultProgressRate = 4
	copyBufferSize      = 32 * 1024
)

// Progress is a snapshot of a running transfer. Total is -1 when the server sent no length.
type Progress struct {
	Written int64
	Total   int64
	Done    bool
}

// Percent returns completion in 0..100, or -1 when the total is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Written) / float64(p.Total) * 100
}

// Downloader streams remote resources to local files.
type Downloader struct {
	httpClient   *http.Client
	progressRate rate.Limit
}

// NewDownloader creates a downloader. progressPerSecond caps how often the progress callback fires; zero uses the default.
func NewDownloader(client *http.Client, progressPerSecond float64) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if progressPerSecond <= 0 {
		progressPerSecond = defaultProgressRate
	}

	return &Downloader{
		httpClient:   client,
		progressRate: rate.Limit(progressPerSecond),
	}
}

// Exists reports whether a regular file is already present at path.
//
// The selection flow skips the transfer when it is; matching is by path, not content.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Download streams sourceURL into dest.
//
// The body is written to dest+".part" and renamed onto dest only after a clean end of stream.
// Any failure removes the partial file and returns an error wrapping [shared.ErrTransfer].
func (d *Downloader) Download(ctx context.Context, sourceURL, dest string, onProgress func(Progress)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrTransfer, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrTransfer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s returned status %d", shared.ErrTransfer, sourceURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", shared.ErrTransfer, err)
	}

	// A part file left by an interrupted run is overwritten.
	part := dest + partSuffix
	f, err := os.OpenFile(part, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", shared.ErrTransfer, part, err)
	}

	pw := &progressWriter{
		total:    resp.ContentLength,
		limiter:  rate.NewLimiter(d.progressRate, 1),
		callback: onProgress,
	}

	_, copyErr := io.CopyBuffer(io.MultiWriter(f, pw), resp.Body, make([]byte, copyBufferSize))
	closeErr := f.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(part)
		return fmt.Errorf("%w: %v", shared.ErrTransfer, err)
	}

	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return fmt.Errorf("%w: failed to move %s into place: %v", shared.ErrTransfer, part, err)
	}

	pw.finish()
	return nil
}

// progressWriter counts bytes and reports through a rate-limited callback.
type progressWriter struct {
	written  int64
	total    int64
	limiter  *rate.Limiter
	callback func(Progress)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.callback != nil && p.limiter.Allow() {
		p.callback(Progress{Written: p.written, Total: p.total})
	}
	return len(b), nil
}

func (p *progressWriter) finish() {
	if p.callback == nil {
		return
	}
	total := p.total
	if total < 0 {
		total = p.written
	}
	p.callback(Progress{Written: p.written, Total: total, Done: true})
}
