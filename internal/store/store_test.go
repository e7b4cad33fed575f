package store

import (
	"fmt"
	"testing"

	"garageclient/internal/domain/models"
)

func newItemCollection() *Collection[models.Item] {
	return NewCollection(
		func(i models.Item) string { return i.ID },
		func(i *models.Item, id string) { i.ID = id },
	)
}

func seedItems(c *Collection[models.Item], n int) {
	for i := 0; i < n; i++ {
		c.Seed(models.Item{
			ID:       fmt.Sprintf("i%02d", i),
			Name:     fmt.Sprintf("Part %d", i),
			Price:    float64(i),
			Quantity: i % 3,
		})
	}
}

func TestInsertAssignsID(t *testing.T) {
	c := newItemCollection()

	got := c.Insert(models.Item{Name: "Oil Filter"})

	if got.ID == "" {
		t.Fatalf("insert must assign an id")
	}
	if _, ok := c.Get(got.ID); !ok {
		t.Fatalf("inserted entity not retrievable")
	}
}

func TestListPagesAndCountsAllMatches(t *testing.T) {
	c := newItemCollection()
	seedItems(c, 25)

	items, total := c.List(ListQuery{Page: 3, Limit: 10})

	if total != 25 {
		t.Fatalf("total = %d, want 25", total)
	}
	if len(items) != 5 {
		t.Fatalf("page 3 of 25 by 10 must hold 5 items, got %d", len(items))
	}
}

func TestListPageBeyondEndIsEmpty(t *testing.T) {
	c := newItemCollection()
	seedItems(c, 5)

	items, total := c.List(ListQuery{Page: 9, Limit: 10})

	if total != 5 || len(items) != 0 {
		t.Fatalf("got %d items, total %d", len(items), total)
	}
}

func TestListSortDescending(t *testing.T) {
	c := newItemCollection()
	seedItems(c, 5)

	items, _ := c.List(ListQuery{Sort: "-price", Limit: 50})

	if items[0].Price != 4 || items[4].Price != 0 {
		t.Fatalf("descending price sort broken: first=%v last=%v", items[0].Price, items[4].Price)
	}
}

func TestListSortStringField(t *testing.T) {
	c := newItemCollection()
	c.Seed(models.Item{ID: "a", Name: "Wiper"})
	c.Seed(models.Item{ID: "b", Name: "Brake Pad"})
	c.Seed(models.Item{ID: "c", Name: "Oil Filter"})

	items, _ := c.List(ListQuery{Sort: "name", Limit: 50})

	if items[0].Name != "Brake Pad" || items[2].Name != "Wiper" {
		t.Fatalf("name sort broken: %v %v %v", items[0].Name, items[1].Name, items[2].Name)
	}
}

func TestListSearchIsCaseInsensitiveSubstring(t *testing.T) {
	c := newItemCollection()
	c.Seed(models.Item{ID: "a", Name: "Oil Filter"})
	c.Seed(models.Item{ID: "b", Name: "Air filter"})
	c.Seed(models.Item{ID: "c", Name: "Brake Pad"})

	items, total := c.List(ListQuery{
		Search:       "FILTER",
		SearchFields: []string{"name"},
		Limit:        50,
	})

	if total != 2 || len(items) != 2 {
		t.Fatalf("search must match 2 items, got %d (total %d)", len(items), total)
	}
}

func TestListFiltersExactMatch(t *testing.T) {
	c := newItemCollection()
	c.Seed(models.Item{ID: "a", Name: "Oil Filter", CategoryID: "cat-engine"})
	c.Seed(models.Item{ID: "b", Name: "Air Filter", CategoryID: "cat-body"})

	items, total := c.List(ListQuery{
		Filters: map[string]string{"categoryId": "cat-body"},
		Limit:   50,
	})

	if total != 1 || items[0].ID != "b" {
		t.Fatalf("filter must keep only cat-body, got %v (total %d)", items, total)
	}
}

func TestListEmptyFilterValueIgnored(t *testing.T) {
	c := newItemCollection()
	seedItems(c, 3)

	_, total := c.List(ListQuery{
		Filters: map[string]string{"categoryId": ""},
		Limit:   50,
	})

	if total != 3 {
		t.Fatalf("blank filter must not constrain, total = %d", total)
	}
}

func TestReplacePreservesID(t *testing.T) {
	c := newItemCollection()
	c.Seed(models.Item{ID: "a", Name: "Oil Filter"})

	got, ok := c.Replace("a", models.Item{Name: "Oil Filter Premium"})

	if !ok || got.ID != "a" {
		t.Fatalf("replace must keep the id, got %+v ok=%v", got, ok)
	}
	if _, ok := c.Replace("missing", models.Item{}); ok {
		t.Fatalf("replace of a missing id must fail")
	}
}

func TestUpdateAppliesMutation(t *testing.T) {
	c := newItemCollection()
	c.Seed(models.Item{ID: "a", Name: "Oil Filter", Quantity: 3})

	got, ok := c.Update("a", func(i *models.Item) { i.Quantity += 2 })

	if !ok || got.Quantity != 5 {
		t.Fatalf("update broken: %+v ok=%v", got, ok)
	}
}

func TestDeleteRemovesFromOrder(t *testing.T) {
	c := newItemCollection()
	seedItems(c, 3)

	if !c.Delete("i01") {
		t.Fatalf("delete of a present id must succeed")
	}
	if c.Delete("i01") {
		t.Fatalf("second delete must report already gone")
	}

	items, total := c.List(ListQuery{Limit: 50})
	if total != 2 || len(items) != 2 {
		t.Fatalf("deleted item still listed: %v", items)
	}
	for _, it := range items {
		if it.ID == "i01" {
			t.Fatalf("deleted item still present")
		}
	}
}
