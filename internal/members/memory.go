package members

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/celerix-dev/celerix-keystore/pkg/schema"
)

// MemoryClient keeps members in process. It backs embedded use and tests.
type MemoryClient struct {
	mu      sync.RWMutex
	nextID  int64
	members []schema.FamilyMember
}

// NewMemoryClient returns an empty client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

func (c *MemoryClient) AddMember(_ context.Context, name, email string) (schema.FamilyMember, error) {
	m, err := newMember(name, email)
	if err != nil {
		return schema.FamilyMember{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	m.ID = &id
	c.members = append(c.members, m)
	return m, nil
}

func (c *MemoryClient) FetchFamilyMembers(context.Context) ([]schema.FamilyMember, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]schema.FamilyMember, len(c.members))
	copy(out, c.members)
	return out, nil
}

func (c *MemoryClient) DeleteMember(_ context.Context, identification uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, m := range c.members {
		if m.Identification == identification {
			c.members = append(c.members[:i], c.members[i+1:]...)
			return nil
		}
	}
	return ErrMemberNotFound
}
