package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// pendingPreview caches the outcome of a PreviewFile call so a later FixFile
// can apply exactly what was shown, detecting files changed in between.
type pendingPreview struct {
	UUID     string
	URL      string
	Original string
	Fixed    string
	Edits    int
	At       time.Time
}

type pendingPreviews struct {
	mu   sync.RWMutex
	byID map[string]*pendingPreview
	ttl  time.Duration
}

func newPendingPreviews(ttl time.Duration) *pendingPreviews {
	return &pendingPreviews{byID: make(map[string]*pendingPreview), ttl: ttl}
}

func (p *pendingPreviews) Put(x *pendingPreview) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	for id, v := range p.byID {
		if now.Sub(v.At) > p.ttl {
			delete(p.byID, id)
		}
	}
	x.UUID = uuid.New().String()
	x.At = now
	p.byID[x.UUID] = x
	return x.UUID
}

// Take removes and returns a preview; expired entries are treated as absent.
func (p *pendingPreviews) Take(id string) (*pendingPreview, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	x, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	delete(p.byID, id)
	if time.Since(x.At) > p.ttl {
		return nil, false
	}
	return x, true
}
