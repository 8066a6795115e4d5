package resolver

import (
	"context"
	"log"
	"strings"

	"github.com/kritsadas/storefront-backend/internal/catalog"
)

// ItemFetcher is the single catalog call the resolver issues.
type ItemFetcher interface {
	GetItem(ctx context.Context, slug string) (*catalog.Item, error)
}

// Resolution is the tagged result of resolving one slug. Exactly one of
// Product and Node is set: Product for KindProduct, Node for everything
// else (including KindUnknown, the fail-open generic listing seed).
type Resolution struct {
	Kind    catalog.Kind          `json:"kind"`
	Product *catalog.Product      `json:"product,omitempty"`
	Node    *catalog.TaxonomyNode `json:"node,omitempty"`
}

// Resolver maps one URL path segment to an entity kind. Retry policy belongs
// to the caller; the resolver issues exactly one lookup.
type Resolver struct {
	catalog ItemFetcher
}

func New(c ItemFetcher) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve looks the slug up and dispatches on the case-folded type tag.
// catalog.ErrNotFound and transient lookup errors pass through untouched.
func (r *Resolver) Resolve(ctx context.Context, slug string) (Resolution, error) {
	item, err := r.catalog.GetItem(ctx, slug)
	if err != nil {
		return Resolution{}, err
	}

	switch catalog.Kind(strings.ToLower(strings.TrimSpace(item.Type))) {
	case catalog.KindProduct:
		return Resolution{Kind: catalog.KindProduct, Product: item.Product()}, nil
	case catalog.KindCategory:
		return Resolution{Kind: catalog.KindCategory, Node: item.Node(catalog.KindCategory)}, nil
	case catalog.KindBrand:
		return Resolution{Kind: catalog.KindBrand, Node: item.Node(catalog.KindBrand)}, nil
	case catalog.KindSubcategory:
		return Resolution{Kind: catalog.KindSubcategory, Node: item.Node(catalog.KindSubcategory)}, nil
	default:
		if item.ID == "" {
			// no tag and no entity shape: nothing to render
			return Resolution{}, catalog.ErrNotFound
		}
		// fail open: an entity with an unrecognized tag still gets a
		// generic listing, but the kind stays distinct so callers can
		// log or surface the ambiguity.
		log.Printf("slug %q resolved with unrecognized type %q, treating as generic listing", slug, item.Type)
		return Resolution{Kind: catalog.KindUnknown, Node: item.Node(catalog.KindUnknown)}, nil
	}
}
