package catalog

import (
	"context"

	"github.com/dukerupert/brokkr/internal/domain"
)

// Source provides the persisted catalog rows. Satisfied by the store.
type Source interface {
	ListServices(ctx context.Context) ([]domain.SupportService, error)
}

// Catalog is the immutable in-memory table of purchasable support
// offerings. Loaded once at startup and read concurrently without locks.
type Catalog struct {
	byID    map[string]domain.SupportService
	ordered []domain.SupportService
}

// Load reads and validates the catalog from its source. A single invalid
// entry fails the load: a catalog that can misprice jobs must not serve.
func Load(ctx context.Context, source Source) (*Catalog, error) {
	const op = "catalog.load"

	services, err := source.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		byID:    make(map[string]domain.SupportService, len(services)),
		ordered: services,
	}

	for _, svc := range services {
		if err := svc.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[svc.ID]; dup {
			return nil, domain.Errorf(domain.EINVALID, op, "duplicate service id: %s", svc.ID)
		}
		c.byID[svc.ID] = svc
	}

	return c, nil
}

// Get returns the catalog entry for a service id.
func (c *Catalog) Get(id string) (domain.SupportService, error) {
	svc, ok := c.byID[id]
	if !ok {
		return domain.SupportService{}, domain.NotFound("catalog.get", "service", id)
	}
	return svc, nil
}

// List returns all catalog entries in their load order.
func (c *Catalog) List() []domain.SupportService {
	return c.ordered
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.byID)
}
