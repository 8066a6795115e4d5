package taxonomy

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kritsadas/storefront-backend/internal/catalog"
)

var (
	ErrUnknownKind = errors.New("unknown taxonomy kind")
)

// Catalog lists the read-only taxonomy endpoints the index is built from.
type Catalog interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListBrands(ctx context.Context) ([]catalog.Brand, error)
	ListSubcategories(ctx context.Context) ([]catalog.Subcategory, error)
	ListPriorities(ctx context.Context) ([]catalog.PriorityEntry, error)
}

// Index is a read-mostly cache of the catalog taxonomy: categories, brands,
// subcategories grouped by parent category, and priority levels for
// navigation ordering. Build replaces the whole snapshot atomically, so a
// failed refresh never clobbers a good one.
type Index struct {
	catalog Catalog

	mu             sync.RWMutex
	categories     []catalog.Category
	brands         []catalog.Brand
	subcategories  []catalog.Subcategory
	subsByCategory map[string][]catalog.Subcategory
	levels         map[string]int
}

func NewIndex(c Catalog) *Index {
	return &Index{
		catalog:        c,
		subsByCategory: make(map[string][]catalog.Subcategory),
		levels:         make(map[string]int),
	}
}

// Build fetches the four taxonomy listings concurrently and swaps the
// snapshot in one pass. Subcategories come from the batched /subcategory
// listing and are grouped by their own parent category id, so a slow fetch
// can never land under the wrong category.
func (idx *Index) Build(ctx context.Context) error {
	var (
		categories []catalog.Category
		brands     []catalog.Brand
		subs       []catalog.Subcategory
		priorities []catalog.PriorityEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		categories, err = idx.catalog.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		brands, err = idx.catalog.ListBrands(gctx)
		return err
	})
	g.Go(func() (err error) {
		subs, err = idx.catalog.ListSubcategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		priorities, err = idx.catalog.ListPriorities(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	subsByCategory := make(map[string][]catalog.Subcategory, len(categories))
	for _, s := range subs {
		subsByCategory[s.CategoryID] = append(subsByCategory[s.CategoryID], s)
	}

	// duplicate (targetType, targetId) entries are tolerated: the last one
	// in the listing wins
	levels := make(map[string]int, len(priorities))
	for _, p := range priorities {
		levels[levelKey(p.TargetType, p.TargetID)] = p.ClampedLevel()
	}

	idx.mu.Lock()
	idx.categories = categories
	idx.brands = brands
	idx.subcategories = subs
	idx.subsByCategory = subsByCategory
	idx.levels = levels
	idx.mu.Unlock()
	return nil
}

// SubcategoriesOf returns the subcategories of one category in fetch order.
func (idx *Index) SubcategoriesOf(categoryID string) []catalog.Subcategory {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	subs := idx.subsByCategory[categoryID]
	out := make([]catalog.Subcategory, len(subs))
	copy(out, subs)
	return out
}

// HasSubcategory reports whether subID is a subcategory of categoryID.
func (idx *Index) HasSubcategory(categoryID, subID string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, s := range idx.subsByCategory[categoryID] {
		if s.ID == subID {
			return true
		}
	}
	return false
}

// OrderedNav returns the nodes of one kind sorted by priority level
// descending. Nodes without a priority entry sort as level 0; ties keep the
// original fetch order, so repeated calls on the same snapshot are
// deterministic.
func (idx *Index) OrderedNav(kind catalog.Kind) ([]catalog.TaxonomyNode, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var nodes []catalog.TaxonomyNode
	switch kind {
	case catalog.KindCategory:
		nodes = make([]catalog.TaxonomyNode, 0, len(idx.categories))
		for _, c := range idx.categories {
			nodes = append(nodes, catalog.TaxonomyNode{Kind: kind, ID: c.ID, Name: c.Name, Slug: c.Slug})
		}
	case catalog.KindBrand:
		nodes = make([]catalog.TaxonomyNode, 0, len(idx.brands))
		for _, b := range idx.brands {
			nodes = append(nodes, catalog.TaxonomyNode{Kind: kind, ID: b.ID, Name: b.Name, Slug: b.Slug})
		}
	case catalog.KindSubcategory:
		nodes = make([]catalog.TaxonomyNode, 0, len(idx.subcategories))
		for _, s := range idx.subcategories {
			nodes = append(nodes, catalog.TaxonomyNode{Kind: kind, ID: s.ID, Name: s.Name, Slug: s.Slug, ParentCategoryID: s.CategoryID})
		}
	default:
		return nil, ErrUnknownKind
	}

	for i := range nodes {
		nodes[i].Level = idx.levels[levelKey(kind, nodes[i].ID)]
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Level > nodes[j].Level
	})
	return nodes, nil
}

func levelKey(kind catalog.Kind, id string) string {
	return string(kind) + "|" + id
}
