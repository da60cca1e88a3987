package memory

import (
	"time"

	"rag-debugger-be/pkg/capture"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CaptureRepository holds in-flight capture sessions between start and
// flush. Entries expire so a run that never finishes does not pin memory
// forever; the durable record of an abandoned run is whatever phases were
// already flushed.
type CaptureRepository struct {
	cache *cache.Cache
}

func NewCaptureRepository() *CaptureRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CaptureRepository{
		cache: c,
	}
}

func (r *CaptureRepository) Save(session *capture.Session) {
	r.cache.Set(session.SessionId.String(), session, cache.DefaultExpiration)
}

func (r *CaptureRepository) Get(sessionId uuid.UUID) (*capture.Session, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(*capture.Session), true
	}
	return nil, false
}

func (r *CaptureRepository) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
