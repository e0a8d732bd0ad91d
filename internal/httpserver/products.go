package httpserver

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

type productsResponse struct {
	Products []productView `json:"products"`
	Total    int           `json:"total"`
	Mock     bool          `json:"mock"`
}

func (h *handlers) listProducts(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.deps.Catalog.Search(c.Request.Context(), q)
	c.JSON(http.StatusOK, productsResponse{Products: toProductViews(res.Products), Total: len(res.Products), Mock: res.Mock})
}

func (h *handlers) featuredProducts(c *gin.Context) {
	n := catalog.FeaturedCount
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		n = v
	}
	res := h.deps.Catalog.Featured(c.Request.Context(), n)
	c.JSON(http.StatusOK, productsResponse{Products: toProductViews(res.Products), Total: len(res.Products), Mock: res.Mock})
}

func (h *handlers) filterOptions(c *gin.Context) {
	res := h.deps.Catalog.Search(c.Request.Context(), catalog.Query{Text: c.Query("q")})
	c.JSON(http.StatusOK, catalog.FilterOptions(res.Products))
}

func (h *handlers) productByHandle(c *gin.Context) {
	p, err := h.deps.Catalog.ProductByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("product lookup failed", zap.String("handle", c.Param("handle")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product lookup failed"})
		return
	}
	c.JSON(http.StatusOK, toProductView(*p))
}

// parseQuery reads q, vendor, productType, tags (comma separated or
// repeated), minPrice, maxPrice, availability, sort and reverse.
func parseQuery(c *gin.Context) (catalog.Query, error) {
	q := catalog.Query{
		Text: c.Query("q"),
		Filters: catalog.Filters{
			Vendor:      c.Query("vendor"),
			ProductType: c.Query("productType"),
		},
		Sort: catalog.ParseSortKey(c.DefaultQuery("sort", string(catalog.SortTitle))),
	}
	for _, raw := range c.QueryArray("tags") {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Filters.Tags = append(q.Filters.Tags, tag)
			}
		}
	}
	var err error
	if q.Filters.MinPrice, err = floatParam(c, "minPrice"); err != nil {
		return q, err
	}
	if q.Filters.MaxPrice, err = floatParam(c, "maxPrice"); err != nil {
		return q, err
	}
	switch a := catalog.Availability(c.Query("availability")); a {
	case catalog.AvailabilityAny, catalog.AvailabilityAvailable, catalog.AvailabilityUnavailable:
		q.Filters.Availability = a
	default:
		return q, errors.New("availability must be available or unavailable")
	}
	if raw := c.Query("reverse"); raw != "" {
		if q.Reverse, err = strconv.ParseBool(raw); err != nil {
			return q, errors.New("reverse must be a boolean")
		}
	}
	return q, nil
}

func floatParam(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}
