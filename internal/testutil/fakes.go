package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/planflow/internal/domain"
)

// MemoryStore is an in-memory attachment store. Set FailUpload or
// FailDelete to make the matching call return an error.
type MemoryStore struct {
	mu         sync.Mutex
	files      map[string][]byte
	next       int
	FailUpload error
	FailDelete error
	Deleted    []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpload != nil {
		return "", s.FailUpload
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.next++
	url := fmt.Sprintf("mem://%d/%s", s.next, name)
	s.files[url] = data
	return url, nil
}

func (s *MemoryStore) Delete(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete != nil {
		return false, s.FailDelete
	}
	if _, ok := s.files[url]; !ok {
		return false, nil
	}
	delete(s.files, url)
	s.Deleted = append(s.Deleted, url)
	return true, nil
}

// Has reports whether a file is stored at url.
func (s *MemoryStore) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[url]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// RecordingNotifier keeps every notification it is asked to send.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []*domain.Notification
	Err  error
}

func (r *RecordingNotifier) Send(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *RecordingNotifier) Sent() []*domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Notification(nil), r.sent...)
}

// Kinds lists the kinds sent to recipientID, in order.
func (r *RecordingNotifier) Kinds(recipientID string) []domain.NotificationKind {
	var out []domain.NotificationKind
	for _, n := range r.Sent() {
		if n.RecipientID == recipientID {
			out = append(out, n.Kind)
		}
	}
	return out
}

// ErrInjected is the error fakes return when a test asks them to fail.
var ErrInjected = errors.New("injected failure")
