package httpserver

import (
	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/money"
)

type imageView struct {
	domain.Image
	Src       string `json:"src"`
	Thumbnail string `json:"thumbnail"`
}

type variantView struct {
	domain.ProductVariant
	Display money.PriceDisplay `json:"display"`
	InStock bool               `json:"inStock"`
	Image   *imageView         `json:"image,omitempty"`
}

type productView struct {
	domain.Product
	LegacyID  string         `json:"legacyId"`
	Variants  []variantView  `json:"variants"`
	URL       string         `json:"url"`
	PriceText string         `json:"priceText"`
	InStock   bool           `json:"inStock"`
	Savings   *money.Savings `json:"savings,omitempty"`
	MainImage *imageView     `json:"mainImage,omitempty"`
}

type lineView struct {
	domain.CartLine
	FormattedPrice string `json:"formattedPrice"`
	FormattedTotal string `json:"formattedTotal"`
	URL            string `json:"url"`
}

type cartView struct {
	cart.State
	Items             []lineView `json:"items"`
	FormattedSubtotal string     `json:"formattedSubtotal"`
	FormattedTax      string     `json:"formattedTax"`
	FormattedTotal    string     `json:"formattedTotal"`
	IsEmpty           bool       `json:"isEmpty"`
}

func toImageView(img *domain.Image) *imageView {
	if img == nil {
		return nil
	}
	return &imageView{
		Image:     *img,
		Src:       money.ResponsiveImageURL(img.URL, "medium"),
		Thumbnail: money.ResponsiveImageURL(img.URL, "thumbnail"),
	}
}

func toProductView(p domain.Product) productView {
	variants := make([]variantView, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, variantView{
			ProductVariant: v,
			Display:        money.VariantPriceDisplay(v),
			InStock:        money.IsVariantInStock(v),
			Image:          toImageView(money.VariantImage(v, p)),
		})
	}
	return productView{
		Product:   p,
		LegacyID:  money.ExtractID(p.ID),
		Variants:  variants,
		URL:       money.ProductURL(p.Handle),
		PriceText: money.PriceRangeText(p),
		InStock:   money.IsProductInStock(p),
		Savings:   money.BestSavings(p),
		MainImage: toImageView(money.MainImage(p)),
	}
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

func toCartView(s cart.State) cartView {
	items := make([]lineView, 0, len(s.Items))
	for _, line := range s.Items {
		items = append(items, lineView{
			CartLine:       line,
			FormattedPrice: money.FormatPrice(line.Price, line.CurrencyCode),
			FormattedTotal: money.FormatPrice(line.TotalPrice, line.CurrencyCode),
			URL:            money.ProductURL(line.Handle),
		})
	}
	return cartView{
		State:             s,
		Items:             items,
		FormattedSubtotal: money.FormatPrice(s.SubtotalAmount, s.CurrencyCode),
		FormattedTax:      money.FormatPrice(s.TotalTaxAmount, s.CurrencyCode),
		FormattedTotal:    money.FormatPrice(s.TotalAmount, s.CurrencyCode),
		IsEmpty:           len(s.Items) == 0,
	}
}
