package cart

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kritsadas/storefront-backend/internal/auth"
	"github.com/kritsadas/storefront-backend/internal/catalog"
)

const sessionCookieName = "session_id"

// ProductGetter fetches one product by id; the catalog client satisfies it.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// Handler exposes the cart over HTTP. Every mutation loads the cart through
// the store list, applies the change, and persists back to all backends.
type Handler struct {
	products  ProductGetter
	sqlStore  Store
	cookieTTL time.Duration
}

// NewHandler builds the cart handler. sqlStore may be nil when no database
// is configured; the cookie backend alone then carries the cart.
func NewHandler(products ProductGetter, sqlStore Store, cookieTTL time.Duration) *Handler {
	return &Handler{products: products, sqlStore: sqlStore, cookieTTL: cookieTTL}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:id", h.setQuantity)
	app.Delete("/api/v1/cart/items/:id", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

// stores returns the backend list in read priority order: structured store
// first, cookie fallback second.
func (h *Handler) stores(c *fiber.Ctx) Stores {
	out := make(Stores, 0, 2)
	if h.sqlStore != nil {
		out = append(out, h.sqlStore)
	}
	out = append(out, NewCookieStore(c, h.cookieTTL))
	return out
}

// sessionID keys the structured store: the authenticated user id when a
// token is present, otherwise a uuid pinned to a session cookie.
func (h *Handler) sessionID(c *fiber.Ctx) string {
	if userID, err := auth.UserIDFromCtx(c); err == nil {
		return "user:" + userID
	}
	if v := c.Cookies(sessionCookieName); v != "" {
		return v
	}
	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}

type cartResponse struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

func respond(c *fiber.Ctx, cart *Cart) error {
	return c.JSON(cartResponse{
		Items:      cart.Items(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	stores := h.stores(c)
	cart := stores.Load(c.UserContext(), h.sessionID(c))
	return respond(c, cart)
}

type addItemRequest struct {
	ID string `json:"id"`
}

// addItem snapshots the product as the catalog serves it right now; the
// client sends only the id, never prices.
func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "product id is required"})
	}

	p, err := h.products.GetProduct(c.UserContext(), payload.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "unknown product"})
		}
		if catalog.IsTransient(err) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "catalog unavailable", "retryable": true})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	session := h.sessionID(c)
	stores := h.stores(c)
	cart := stores.Load(c.UserContext(), session)
	cart.AddItem(*p)
	if err := stores.Persist(c.UserContext(), session, cart); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return respond(c, cart)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) setQuantity(c *fiber.Ctx) error {
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	session := h.sessionID(c)
	stores := h.stores(c)
	cart := stores.Load(c.UserContext(), session)
	cart.SetQuantity(c.Params("id"), payload.Quantity)
	if err := stores.Persist(c.UserContext(), session, cart); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return respond(c, cart)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	session := h.sessionID(c)
	stores := h.stores(c)
	cart := stores.Load(c.UserContext(), session)
	cart.RemoveItem(c.Params("id"))
	if err := stores.Persist(c.UserContext(), session, cart); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return respond(c, cart)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	session := h.sessionID(c)
	stores := h.stores(c)
	cart := stores.Load(c.UserContext(), session)
	cart.Clear()
	if err := stores.Persist(c.UserContext(), session, cart); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
