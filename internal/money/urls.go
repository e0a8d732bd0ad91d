package money

import (
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

func ProductURL(handle string) string {
	return "/products/" + handle
}

// ExtractID returns the trailing segment of a gid://shopify/<Resource>/<id>.
func ExtractID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 && i < len(gid)-1 {
		return gid[i+1:]
	}
	return gid
}

func GID(resource, id string) string {
	return "gid://shopify/" + resource + "/" + id
}

func MainImage(p domain.Product) *domain.Image {
	if len(p.Images) == 0 {
		return nil
	}
	img := p.Images[0]
	return &img
}

func VariantImage(v domain.ProductVariant, p domain.Product) *domain.Image {
	if v.Image != nil {
		return v.Image
	}
	return MainImage(p)
}

type ImageSize struct {
	Width  int
	Height int
}

var ImageSizes = map[string]ImageSize{
	"thumbnail": {Width: 100, Height: 100},
	"small":     {Width: 300, Height: 300},
	"medium":    {Width: 600, Height: 600},
	"large":     {Width: 1200, Height: 1200},
	"hero":      {Width: 1920, Height: 1080},
}

// OptimizedImageURL appends CDN resize parameters (width, height, crop) in that order.
func OptimizedImageURL(raw string, width, height int, crop string) string {
	if raw == "" {
		return ""
	}
	var params []string
	if width > 0 {
		params = append(params, "width="+strconv.Itoa(width))
	}
	if height > 0 {
		params = append(params, "height="+strconv.Itoa(height))
	}
	if crop != "" {
		params = append(params, "crop="+url.QueryEscape(crop))
	}
	if len(params) == 0 {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + strings.Join(params, "&")
}

// ResponsiveImageURL sizes raw for a named preset, cropping to center.
// Unknown presets return raw unchanged.
func ResponsiveImageURL(raw, size string) string {
	s, ok := ImageSizes[size]
	if !ok {
		return raw
	}
	return OptimizedImageURL(raw, s.Width, s.Height, "center")
}
