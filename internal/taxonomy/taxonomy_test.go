package taxonomy

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kritsadas/storefront-backend/internal/catalog"
)

type fakeCatalog struct {
	categories []catalog.Category
	brands     []catalog.Brand
	subs       []catalog.Subcategory
	priorities []catalog.PriorityEntry
	failBrands bool
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	if f.failBrands {
		return nil, errors.New("catalog down")
	}
	return f.brands, nil
}

func (f *fakeCatalog) ListSubcategories(ctx context.Context) ([]catalog.Subcategory, error) {
	return f.subs, nil
}

func (f *fakeCatalog) ListPriorities(ctx context.Context) ([]catalog.PriorityEntry, error) {
	return f.priorities, nil
}

func buildIndex(t *testing.T, fc *fakeCatalog) *Index {
	t.Helper()
	idx := NewIndex(fc)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return idx
}

func TestOrderedNav_PriorityDescendingStableTies(t *testing.T) {
	idx := buildIndex(t, &fakeCatalog{
		categories: []catalog.Category{
			{ID: "A", Name: "A", Slug: "a"},
			{ID: "B", Name: "B", Slug: "b"},
			{ID: "C", Name: "C", Slug: "c"},
		},
		priorities: []catalog.PriorityEntry{
			{TargetType: catalog.KindCategory, TargetID: "A", Level: 5},
			{TargetType: catalog.KindCategory, TargetID: "B", Level: 8},
			{TargetType: catalog.KindCategory, TargetID: "C", Level: 5},
		},
	})

	nodes, err := idx.OrderedNav(catalog.KindCategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{nodes[0].ID, nodes[1].ID, nodes[2].ID}
	want := []string{"B", "A", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestOrderedNav_Deterministic(t *testing.T) {
	idx := buildIndex(t, &fakeCatalog{
		brands: []catalog.Brand{
			{ID: "B1", Name: "Acme", Slug: "acme"},
			{ID: "B2", Name: "Globex", Slug: "globex"},
			{ID: "B3", Name: "Initech", Slug: "initech"},
		},
		priorities: []catalog.PriorityEntry{
			{TargetType: catalog.KindBrand, TargetID: "B3", Level: 2},
		},
	})

	first, err := idx.OrderedNav(catalog.KindBrand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := idx.OrderedNav(catalog.KindBrand)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ordering changed between calls: %v vs %v", first, again)
		}
	}
	if first[0].ID != "B3" {
		t.Fatalf("expected B3 first, got %s", first[0].ID)
	}
}

func TestOrderedNav_ClampsLevels(t *testing.T) {
	idx := buildIndex(t, &fakeCatalog{
		categories: []catalog.Category{
			{ID: "A"}, {ID: "B"},
		},
		priorities: []catalog.PriorityEntry{
			{TargetType: catalog.KindCategory, TargetID: "A", Level: 99},
			{TargetType: catalog.KindCategory, TargetID: "B", Level: -4},
		},
	})

	nodes, err := idx.OrderedNav(catalog.KindCategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nodes[0].Level != 10 {
		t.Fatalf("expected level clamped to 10, got %d", nodes[0].Level)
	}
	if nodes[1].Level != 0 {
		t.Fatalf("expected level clamped to 0, got %d", nodes[1].Level)
	}
}

func TestOrderedNav_DuplicatePriorityLastWins(t *testing.T) {
	idx := buildIndex(t, &fakeCatalog{
		categories: []catalog.Category{
			{ID: "A"}, {ID: "B"},
		},
		priorities: []catalog.PriorityEntry{
			{TargetType: catalog.KindCategory, TargetID: "A", Level: 9},
			{TargetType: catalog.KindCategory, TargetID: "B", Level: 5},
			{TargetType: catalog.KindCategory, TargetID: "A", Level: 1},
		},
	})

	nodes, err := idx.OrderedNav(catalog.KindCategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nodes[0].ID != "B" {
		t.Fatalf("expected B first after duplicate override, got %s", nodes[0].ID)
	}
	if nodes[1].Level != 1 {
		t.Fatalf("expected duplicate entry to override level, got %d", nodes[1].Level)
	}
}

func TestOrderedNav_SubcategoriesFollowFetchOrder(t *testing.T) {
	idx := buildIndex(t, &fakeCatalog{
		categories: []catalog.Category{{ID: "C1"}, {ID: "C2"}},
		subs: []catalog.Subcategory{
			{ID: "S1", CategoryID: "C2"},
			{ID: "S2", CategoryID: "C1"},
			// C9 is not in the categories listing; the node still appears
			{ID: "S3", CategoryID: "C9"},
		},
	})

	nodes, err := idx.OrderedNav(catalog.KindSubcategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, len(nodes))
	for i, n := range nodes {
		got[i] = n.ID
	}
	// all levels tie at 0, so the /subcategory listing order is kept
	want := []string{"S1", "S2", "S3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fetch order %v, got %v", want, got)
	}
	if nodes[2].ParentCategoryID != "C9" {
		t.Fatalf("expected orphan parent id preserved, got %+v", nodes[2])
	}
}

func TestOrderedNav_UnknownKind(t *testing.T) {
	idx := buildIndex(t, &fakeCatalog{})
	if _, err := idx.OrderedNav(catalog.Kind("banner")); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestSubcategoriesGroupedByParent(t *testing.T) {
	idx := buildIndex(t, &fakeCatalog{
		categories: []catalog.Category{{ID: "C1"}, {ID: "C2"}},
		subs: []catalog.Subcategory{
			{ID: "S1", CategoryID: "C1"},
			{ID: "S2", CategoryID: "C2"},
			{ID: "S3", CategoryID: "C1"},
		},
	})

	subs := idx.SubcategoriesOf("C1")
	if len(subs) != 2 || subs[0].ID != "S1" || subs[1].ID != "S3" {
		t.Fatalf("unexpected subcategories for C1: %+v", subs)
	}
	if !idx.HasSubcategory("C1", "S3") {
		t.Fatalf("expected S3 under C1")
	}
	if idx.HasSubcategory("C1", "S2") {
		t.Fatalf("S2 belongs to C2, not C1")
	}
	if idx.HasSubcategory("C9", "S1") {
		t.Fatalf("unknown category should have no subcategories")
	}
}

func TestBuildFailureKeepsPreviousSnapshot(t *testing.T) {
	fc := &fakeCatalog{
		categories: []catalog.Category{{ID: "C1", Name: "Sensors"}},
	}
	idx := buildIndex(t, fc)

	fc.failBrands = true
	fc.categories = nil
	if err := idx.Build(context.Background()); err == nil {
		t.Fatalf("expected build error")
	}

	nodes, err := idx.OrderedNav(catalog.KindCategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "C1" {
		t.Fatalf("expected previous snapshot to survive failed build, got %+v", nodes)
	}
}
