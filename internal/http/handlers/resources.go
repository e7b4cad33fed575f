package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"garageclient/internal/domain"
	"garageclient/internal/http/middleware"
	"garageclient/internal/store"
	"garageclient/internal/utils"

	"github.com/gin-gonic/gin"
)

// crud wires one collection to the standard five endpoints. Resources only
// differ in their search fields, validation rules and side effects.
type crud[T any] struct {
	name         string
	col          *store.Collection[T]
	searchFields []string
	// filterFields whitelists extra query params usable as exact filters.
	filterFields []string
	validate     func(T) []domain.FieldError
	onCreate     func(*T)
	afterCreate  func(T)
	// bareGet makes GET /:id return the entity without the success envelope,
	// mirroring the production API's inconsistency for some resources.
	bareGet bool
}

// GET {base}?page&limit&sort&search&...filters
func (h crud[T]) list(c *gin.Context) {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	filters := map[string]string{}
	for _, f := range h.filterFields {
		if v := strings.TrimSpace(c.Query(f)); v != "" {
			filters[f] = v
		}
	}

	items, total := h.col.List(store.ListQuery{
		Page:         page,
		Limit:        limit,
		Sort:         strings.TrimSpace(c.Query("sort")),
		Search:       strings.TrimSpace(c.Query("search")),
		SearchFields: h.searchFields,
		Filters:      filters,
	})

	okList(c, items, total, page, limit)
}

// GET {base}/:id
func (h crud[T]) get(c *gin.Context) {
	id := c.Param("id")
	v, ok := h.col.Get(id)
	if !ok {
		fail(c, http.StatusNotFound, h.name+" not found")
		return
	}
	if h.bareGet {
		c.JSON(http.StatusOK, v)
		return
	}
	okData(c, http.StatusOK, v)
}

// POST {base}
func (h crud[T]) create(c *gin.Context) {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if h.onCreate != nil {
		h.onCreate(&v)
	}
	if h.validate != nil {
		if errs := h.validate(v); len(errs) > 0 {
			failFields(c, errs)
			return
		}
	}
	created := h.col.Insert(v)
	if h.afterCreate != nil {
		h.afterCreate(created)
	}
	utils.LogEvent(middleware.GetRequestID(c), h.name, "create", "created")
	okData(c, http.StatusCreated, created)
}

// PUT {base}/:id — partial: only supplied fields change.
func (h crud[T]) update(c *gin.Context) {
	id := c.Param("id")

	patch := map[string]any{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	delete(patch, "id")

	existing, ok := h.col.Get(id)
	if !ok {
		fail(c, http.StatusNotFound, h.name+" not found")
		return
	}

	merged, err := mergePatch(existing, patch)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if h.validate != nil {
		if errs := h.validate(merged); len(errs) > 0 {
			failFields(c, errs)
			return
		}
	}

	updated, ok := h.col.Replace(id, merged)
	if !ok {
		fail(c, http.StatusNotFound, h.name+" not found")
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), h.name, "update", "id="+id)
	okData(c, http.StatusOK, updated)
}

// DELETE {base}/:id
func (h crud[T]) del(c *gin.Context) {
	id := c.Param("id")
	if !h.col.Delete(id) {
		fail(c, http.StatusNotFound, h.name+" not found")
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), h.name, "delete", "id="+id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Mount registers the five routes on a group. Extra guards only apply to
// the destructive route.
func (h crud[T]) Mount(g *gin.RouterGroup, deleteGuards ...gin.HandlerFunc) {
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", append(deleteGuards, h.del)...)
}

// mergePatch overlays patch keys on the entity's json document. Top-level
// keys replace wholesale, which matches the partial-update contract.
func mergePatch[T any](existing T, patch map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(existing)
	if err != nil {
		return out, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return out, err
	}
	for k, v := range patch {
		doc[k] = v
	}
	raw, err = json.Marshal(doc)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
