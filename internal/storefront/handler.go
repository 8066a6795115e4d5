package storefront

import (
	"context"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/kritsadas/storefront-backend/internal/catalog"
	"github.com/kritsadas/storefront-backend/internal/filter"
	"github.com/kritsadas/storefront-backend/internal/resolver"
)

// SlugResolver resolves one navigation slug.
type SlugResolver interface {
	Resolve(ctx context.Context, slug string) (resolver.Resolution, error)
}

// ProductLister queries the catalog product listing.
type ProductLister interface {
	ListProducts(ctx context.Context, query url.Values) ([]catalog.Product, error)
}

// NavIndex is the taxonomy surface the handler reads.
type NavIndex interface {
	OrderedNav(kind catalog.Kind) ([]catalog.TaxonomyNode, error)
	SubcategoriesOf(categoryID string) []catalog.Subcategory
	HasSubcategory(categoryID, subID string) bool
}

// Handler ties slug resolution, facet filtering and the taxonomy index to
// the browse endpoints.
type Handler struct {
	resolver SlugResolver
	products ProductLister
	index    NavIndex
}

func NewHandler(r SlugResolver, p ProductLister, idx NavIndex) *Handler {
	return &Handler{resolver: r, products: p, index: idx}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/nav/:kind", h.getNav)
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/category/:id/subcategories", h.getSubcategories)
	app.Get("/api/v1/browse/:slug", h.browse)
}

// browseResponse is the listing-view payload: the resolved seed, the filter
// it produced, and the products it matches. Subcategories are included when
// a category is selected so the UI can render the next facet level. Kind is
// set only when the listing was seeded by a slug resolution.
type browseResponse struct {
	Kind          catalog.Kind          `json:"kind,omitempty"`
	Node          *catalog.TaxonomyNode `json:"node,omitempty"`
	Filter        filter.State          `json:"filter"`
	Products      []catalog.Product     `json:"products"`
	Subcategories []catalog.Subcategory `json:"subcategories,omitempty"`
}

func (h *Handler) browse(c *fiber.Ctx) error {
	slug := c.Params("slug")

	res, err := h.resolver.Resolve(c.UserContext(), slug)
	if err != nil {
		return lookupError(c, err)
	}

	if res.Kind == catalog.KindProduct {
		return c.JSON(fiber.Map{"kind": catalog.KindProduct, "product": res.Product})
	}

	st := filter.New()
	st.ApplySeed(res.Node)
	st.Validate(h.index)

	products, err := h.products.ListProducts(c.UserContext(), st.QueryParams())
	if err != nil {
		return lookupError(c, err)
	}

	out := browseResponse{Kind: res.Kind, Node: res.Node, Filter: st, Products: products}
	if st.Category != "" {
		out.Subcategories = h.index.SubcategoriesOf(st.Category)
	}
	return c.JSON(out)
}

// facetOrder fixes the application order for explicit selections so that the
// category-resets-subcategory rule fires before the subcategory is applied.
var facetOrder = []string{
	filter.FacetBrand,
	filter.FacetCategory,
	filter.FacetSubCategory,
	filter.FacetSortBy,
	filter.FacetSortOrder,
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	st := filter.New()
	for _, key := range facetOrder {
		v := c.Query(key)
		if v == "" {
			continue
		}
		if err := st.SetFacet(key, v); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	st.Validate(h.index)

	products, err := h.products.ListProducts(c.UserContext(), st.QueryParams())
	if err != nil {
		return lookupError(c, err)
	}

	out := browseResponse{Filter: st, Products: products}
	if st.Category != "" {
		out.Subcategories = h.index.SubcategoriesOf(st.Category)
	}
	return c.JSON(out)
}

func (h *Handler) getNav(c *fiber.Ctx) error {
	nodes, err := h.index.OrderedNav(catalog.Kind(c.Params("kind")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(nodes)
}

func (h *Handler) getSubcategories(c *fiber.Ctx) error {
	return c.JSON(h.index.SubcategoriesOf(c.Params("id")))
}

// lookupError maps the catalog error taxonomy onto HTTP: a missing entity is
// a terminal 404, a transient lookup failure is a 502 the client may retry.
func lookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	}
	if catalog.IsTransient(err) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "catalog unavailable", "retryable": true})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}
