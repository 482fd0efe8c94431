package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

// Catalog is the immutable, ordered set of properties for the lifetime of
// the process. Every session reads from the same Catalog.
type Catalog struct {
	properties []domain.Property
	index      map[string]int
	priceRange domain.PriceRange
}

func LoadCatalog(ctx context.Context, src domain.CatalogSource) (*Catalog, error) {
	props, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return NewCatalog(props)
}

func NewCatalog(props []domain.Property) (*Catalog, error) {
	c := &Catalog{
		properties: make([]domain.Property, 0, len(props)),
		index:      make(map[string]int, len(props)),
	}
	for i, p := range props {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: property at position %d has no id", domain.ErrInvalidCatalog, i)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate property id %q", domain.ErrInvalidCatalog, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: property %q has a negative price", domain.ErrInvalidCatalog, p.ID)
		}
		if !p.Kind.IsValid() {
			return nil, fmt.Errorf("%w: property %q has unknown type %q", domain.ErrInvalidCatalog, p.ID, p.Kind)
		}
		c.index[p.ID] = len(c.properties)
		c.properties = append(c.properties, p)
	}
	c.priceRange = priceRangeOf(c.properties)
	return c, nil
}

func priceRangeOf(props []domain.Property) domain.PriceRange {
	if len(props) == 0 {
		return domain.PriceRange{}
	}
	r := domain.PriceRange{Min: props[0].Price, Max: props[0].Price}
	for _, p := range props[1:] {
		if p.Price < r.Min {
			r.Min = p.Price
		}
		if p.Price > r.Max {
			r.Max = p.Price
		}
	}
	return r
}

// All returns the catalog in its original order. The slice is shared and
// must not be modified.
func (c *Catalog) All() []domain.Property {
	return c.properties
}

func (c *Catalog) Get(id string) (domain.Property, error) {
	i, ok := c.index[id]
	if !ok {
		return domain.Property{}, fmt.Errorf("%w: %q", domain.ErrPropertyNotFound, id)
	}
	return c.properties[i], nil
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.properties)
}

func (c *Catalog) PriceRange() domain.PriceRange {
	return c.priceRange
}
