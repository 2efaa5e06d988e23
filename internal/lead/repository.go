package lead

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*Lead, error)
}

// InMemoryRepository is a Repository backed by process memory, used when no
// database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads []*Lead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create records a new lead in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		SessionID:  req.SessionID,
		Link:       req.Link,
		Transcript: req.Transcript,
		CreatedAt:  time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads = append(r.leads, lead)
	r.mu.Unlock()

	return lead, nil
}

// ListByBusiness returns leads for a business, newest first.
func (r *InMemoryRepository) ListByBusiness(ctx context.Context, businessID string) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0)
	for i := len(r.leads) - 1; i >= 0; i-- {
		if r.leads[i].BusinessID == businessID {
			out = append(out, r.leads[i])
		}
	}
	return out, nil
}
