package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNotFound = errors.New("catalog entity not found")
)

// TransientError marks a lookup that failed for a retryable reason
// (network error, timeout, upstream 5xx). Callers can distinguish it from a
// definitive not-found and offer a retry instead of a dead end.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable lookup failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Client calls the external catalog lookup service. It never mutates catalog
// entities; every call is a read bounded by the client timeout.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
	}
}

// GetItem resolves one slug in the flat namespace shared by all entity kinds.
// Returns ErrNotFound on 404 and a *TransientError on anything retryable.
func (c *Client) GetItem(ctx context.Context, slug string) (*Item, error) {
	var item Item
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&item).
		Get("/item/" + url.PathEscape(slug))
	if err != nil {
		return nil, &TransientError{Op: "get item", Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, &TransientError{Op: "get item", Err: fmt.Errorf("catalog responded %d", resp.StatusCode())}
	}
	return &item, nil
}

// GetProduct fetches one product by id. Same error mapping as GetItem.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&p).
		Get("/product/" + url.PathEscape(id))
	if err != nil {
		return nil, &TransientError{Op: "get product", Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, &TransientError{Op: "get product", Err: fmt.Errorf("catalog responded %d", resp.StatusCode())}
	}
	return &p, nil
}

// ListProducts queries /products with the given facet parameters. The
// service answers either a {"products": [...]} envelope or a bare array;
// both shapes are accepted.
func (c *Client) ListProducts(ctx context.Context, query url.Values) ([]Product, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get("/products")
	if err != nil {
		return nil, &TransientError{Op: "list products", Err: err}
	}
	if resp.IsError() {
		return nil, &TransientError{Op: "list products", Err: fmt.Errorf("catalog responded %d", resp.StatusCode())}
	}

	body := resp.Body()
	var envelope struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Products != nil {
		return envelope.Products, nil
	}
	var bare []Product
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	return nil, &TransientError{Op: "list products", Err: errors.New("unexpected response shape")}
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.list(ctx, "/category", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	var out []Brand
	if err := c.list(ctx, "/brand", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSubcategories(ctx context.Context) ([]Subcategory, error) {
	var out []Subcategory
	if err := c.list(ctx, "/subcategory", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubcategoriesOf fetches the subcategories of a single category.
func (c *Client) SubcategoriesOf(ctx context.Context, categoryID string) ([]Subcategory, error) {
	var out []Subcategory
	if err := c.list(ctx, "/category/"+url.PathEscape(categoryID)+"/subcategories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPriorities fetches priority entries; the endpoint wraps them in a
// {"data": [...]} envelope.
func (c *Client) ListPriorities(ctx context.Context) ([]PriorityEntry, error) {
	var envelope struct {
		Data []PriorityEntry `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get("/p")
	if err != nil {
		return nil, &TransientError{Op: "list priorities", Err: err}
	}
	if resp.IsError() {
		return nil, &TransientError{Op: "list priorities", Err: fmt.Errorf("catalog responded %d", resp.StatusCode())}
	}
	return envelope.Data, nil
}

func (c *Client) list(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(out).
		Get(path)
	if err != nil {
		return &TransientError{Op: "list " + path, Err: err}
	}
	if resp.IsError() {
		return &TransientError{Op: "list " + path, Err: fmt.Errorf("catalog responded %d", resp.StatusCode())}
	}
	return nil
}
