package filter

import (
	"errors"
	"log"
	"net/url"

	"github.com/kritsadas/storefront-backend/internal/catalog"
)

// Facet keys accepted by SetFacet.
const (
	FacetBrand       = "brand"
	FacetCategory    = "category"
	FacetSubCategory = "subCategory"
	FacetSortBy      = "sortBy"
	FacetSortOrder   = "sortOrder"
)

// Sort fields and orders.
const (
	SortByCreatedAt = "createdAt"
	SortByPrice     = "price"
	SortByName      = "name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

var (
	ErrUnknownFacet = errors.New("unknown facet")
	ErrInvalidSort  = errors.New("invalid sort value")
)

// SubcategoryChecker answers whether a subcategory belongs to a category;
// the taxonomy index satisfies it.
type SubcategoryChecker interface {
	HasSubcategory(categoryID, subID string) bool
}

// State is the transient facet selection for one product listing. It is
// constructed per navigation and never persisted; an empty facet means
// "no constraint". The zero value is not usable — build it with New so the
// sort defaults apply.
type State struct {
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	SortBy      string `json:"sortBy"`
	SortOrder   string `json:"sortOrder"`
}

// New returns an unconstrained state sorted by recency descending.
func New() State {
	return State{SortBy: SortByCreatedAt, SortOrder: SortDesc}
}

// SetFacet applies one explicit selection. Selecting a different category
// always drops the subcategory, since a subcategory of the prior category is
// never valid under the new one. Selecting a brand deliberately leaves the
// category facets alone: brand is an independent dimension.
func (s *State) SetFacet(key, value string) error {
	switch key {
	case FacetBrand:
		s.Brand = value
	case FacetCategory:
		if value != s.Category {
			s.SubCategory = ""
		}
		s.Category = value
	case FacetSubCategory:
		s.SubCategory = value
	case FacetSortBy:
		switch value {
		case SortByCreatedAt, SortByPrice, SortByName:
			s.SortBy = value
		default:
			return ErrInvalidSort
		}
	case FacetSortOrder:
		switch value {
		case SortAsc, SortDesc:
			s.SortOrder = value
		default:
			return ErrInvalidSort
		}
	default:
		return ErrUnknownFacet
	}
	return nil
}

// ApplySeed seeds the state from a resolved taxonomy node. A subcategory
// seed also sets its parent category so the selection stays internally
// consistent. Unknown nodes seed nothing: they browse as a generic listing.
func (s *State) ApplySeed(node *catalog.TaxonomyNode) {
	if node == nil {
		return
	}
	switch node.Kind {
	case catalog.KindCategory:
		s.Category = node.ID
		s.SubCategory = ""
	case catalog.KindBrand:
		s.Brand = node.ID
	case catalog.KindSubcategory:
		s.SubCategory = node.ID
		s.Category = node.ParentCategoryID
	}
}

// Validate clears a subcategory that does not belong to the selected
// category (stale or external input); the rest of the state is kept rather
// than rejecting the whole filter.
func (s *State) Validate(idx SubcategoryChecker) {
	if s.SubCategory == "" {
		return
	}
	if s.Category == "" || !idx.HasSubcategory(s.Category, s.SubCategory) {
		log.Printf("subcategory %q does not belong to category %q, clearing facet", s.SubCategory, s.Category)
		s.SubCategory = ""
	}
}

// IsEmpty reports whether no facet constrains the listing.
func (s State) IsEmpty() bool {
	return s.Brand == "" && s.Category == "" && s.SubCategory == ""
}

// QueryParams renders the catalog query. Empty facets are stripped
// entirely — an unset facet is never sent as an explicit match-nothing
// constraint.
func (s State) QueryParams() url.Values {
	v := url.Values{}
	if s.Brand != "" {
		v.Set(FacetBrand, s.Brand)
	}
	if s.Category != "" {
		v.Set(FacetCategory, s.Category)
	}
	if s.SubCategory != "" {
		v.Set(FacetSubCategory, s.SubCategory)
	}
	sortBy := s.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	sortOrder := s.SortOrder
	if sortOrder == "" {
		sortOrder = SortDesc
	}
	v.Set(FacetSortBy, sortBy)
	v.Set(FacetSortOrder, sortOrder)
	return v
}
