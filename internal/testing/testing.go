// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

// MockCatalog is a test double for services.Catalog
type MockCatalog struct {
	Songs   []models.Song
	Details map[string]*models.SongDetail
	ListErr error

	mu          sync.Mutex
	DetailCalls []string
}

func (m *MockCatalog) ListSongs(ctx context.Context) ([]models.Song, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Songs, nil
}

func (m *MockCatalog) GetSongDetail(ctx context.Context, cid string) (*models.SongDetail, error) {
	m.mu.Lock()
	m.DetailCalls = append(m.DetailCalls, cid)
	m.mu.Unlock()

	detail, ok := m.Details[cid]
	if !ok || !detail.Playable() {
		return nil, fmt.Errorf("%w: song %s", shared.ErrNotFound, cid)
	}
	copied := *detail
	return &copied, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// PartialBody yields Data once and then fails, simulating a stream cut mid-transfer.
type PartialBody struct {
	Data []byte
	sent bool
}

func (p *PartialBody) Read(b []byte) (int, error) {
	if p.sent {
		return 0, errors.New("connection reset")
	}
	p.sent = true
	return copy(b, p.Data), nil
}

func (p *PartialBody) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// MockPicker is a test double for tasks.Picker
//
// PickSong returns the song with CID. ChooseSavePath returns SavePath, or the suggestion when SavePath is empty.
type MockPicker struct {
	CID        string
	SavePath   string
	Cancel     bool
	CancelSave bool

	Suggested []string
}

func (p *MockPicker) PickSong(ctx context.Context, songs []models.Song) (*models.Song, error) {
	if p.Cancel {
		return nil, fmt.Errorf("%w: song picker dismissed", shared.ErrUserCancelled)
	}
	for i := range songs {
		if songs[i].CID == p.CID {
			return &songs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no song %s offered", shared.ErrUserCancelled, p.CID)
}

func (p *MockPicker) ChooseSavePath(ctx context.Context, suggested string) (string, error) {
	p.Suggested = append(p.Suggested, suggested)
	if p.CancelSave {
		return "", nil
	}
	if p.SavePath == "" {
		return suggested, nil
	}
	return p.SavePath, nil
}

// MockPanel records every state it is asked to open
type MockPanel struct {
	Opened []models.PlayerState
	Err    error
}

func (p *MockPanel) Open(ctx context.Context, state models.PlayerState) error {
	if p.Err != nil {
		return p.Err
	}
	p.Opened = append(p.Opened, state)
	return nil
}
