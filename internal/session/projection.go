package session

import (
	"context"

	"github.com/spec-kit/booknow-hub/internal/persistence"
)

// Projection is the cached, non-authoritative view of the last resolved context.
// It only carries display data: no tokens, no passwords.
type Projection struct {
	Mode       Mode   `json:"mode"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	TenantID   string `json:"tenant_id,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`
}

// ProjectionOf builds the projection of c. A nil context has no projection.
func ProjectionOf(c Context) *Projection {
	switch v := c.(type) {
	case *GlobalContext:
		return &Projection{
			Mode:     ModeGlobal,
			UserID:   v.Operator.UserID,
			Email:    v.Operator.Email,
			FullName: v.Operator.FullName,
			Role:     string(v.Operator.Role),
		}
	case *TenantContext:
		return &Projection{
			Mode:       ModeTenant,
			UserID:     v.Member.UserID,
			Email:      v.Member.Email,
			FullName:   v.Member.FullName,
			Role:       string(v.Member.Role),
			TenantID:   v.Tenant.ID,
			TenantSlug: v.Tenant.Slug,
			TenantName: v.Tenant.Name,
		}
	}
	return nil
}

// ProjectionCache stores the projection between runs.
type ProjectionCache interface {
	// Load returns nil when nothing is cached.
	Load(ctx context.Context) (*Projection, error)
	Save(ctx context.Context, p *Projection) error
	Clear(ctx context.Context) error
}

// FileProjectionCache keeps the projection in a local JSON file.
type FileProjectionCache struct {
	file *persistence.JSONFile
}

// NewFileProjectionCache opens the cache at path.
func NewFileProjectionCache(path string) (*FileProjectionCache, error) {
	file, err := persistence.NewJSONFile(path)
	if err != nil {
		return nil, err
	}
	return &FileProjectionCache{file: file}, nil
}

func (c *FileProjectionCache) Load(context.Context) (*Projection, error) {
	var p Projection
	found, err := c.file.Read(&p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (c *FileProjectionCache) Save(_ context.Context, p *Projection) error {
	return c.file.Write(p)
}

func (c *FileProjectionCache) Clear(context.Context) error {
	return c.file.Remove()
}
