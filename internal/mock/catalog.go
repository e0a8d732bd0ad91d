package mock

import (
	"strconv"

	"storefront/internal/commerce"
	"storefront/internal/money"
)

const (
	placeholderImage = "/placeholder-product.jpg"
	catalogTimestamp = "2024-01-01T00:00:00Z"
)

type demoVariant struct {
	title     string
	price     string
	compareAt string
	quantity  int
	options   []commerce.SelectedOption
}

func demoProduct(n int, title, handle, description, vendor, productType string, tags []string, v demoVariant) commerce.Product {
	id := strconv.Itoa(n)
	price := commerce.Money{Amount: v.price, CurrencyCode: "USD"}
	qty := v.quantity
	variant := commerce.ProductVariant{
		ID:                "var" + id,
		Title:             v.title,
		Price:             price,
		AvailableForSale:  true,
		QuantityAvailable: &qty,
		SelectedOptions:   v.options,
	}
	if v.compareAt != "" {
		variant.CompareAtPrice = &commerce.Money{Amount: v.compareAt, CurrencyCode: "USD"}
	}
	return commerce.Product{
		ID:          money.GID("Product", id),
		Title:       title,
		Handle:      handle,
		Description: description,
		Vendor:      vendor,
		ProductType: productType,
		Tags:        tags,
		CreatedAt:   catalogTimestamp,
		UpdatedAt:   catalogTimestamp,
		Images: commerce.ImageConnection{Edges: []commerce.ImageEdge{{Node: commerce.Image{
			ID:      "img" + id,
			URL:     placeholderImage,
			AltText: title,
			Width:   800,
			Height:  800,
		}}}},
		Variants:   commerce.VariantConnection{Edges: []commerce.VariantEdge{{Node: variant}}},
		PriceRange: commerce.PriceRange{MinVariantPrice: price, MaxVariantPrice: price},
	}
}

func opt(name, value string) commerce.SelectedOption {
	return commerce.SelectedOption{Name: name, Value: value}
}

// DefaultCatalog returns the fixed demo catalog served in mock mode.
func DefaultCatalog() []commerce.Product {
	return []commerce.Product{
		demoProduct(1, "Premium Wireless Headphones", "premium-wireless-headphones",
			"Experience crystal-clear audio with our premium wireless headphones featuring noise cancellation and 30-hour battery life.",
			"AudioTech", "Electronics", []string{"electronics", "audio", "wireless", "premium"},
			demoVariant{title: "Black", price: "299.99", compareAt: "399.99", quantity: 50, options: []commerce.SelectedOption{opt("Color", "Black")}}),
		demoProduct(2, "Smart Fitness Watch", "smart-fitness-watch",
			"Track your fitness goals with this advanced smartwatch featuring heart rate monitoring, GPS, and 7-day battery life.",
			"FitTech", "Wearables", []string{"fitness", "smartwatch", "health", "technology"},
			demoVariant{title: "Silver", price: "199.99", quantity: 25, options: []commerce.SelectedOption{opt("Color", "Silver")}}),
		demoProduct(3, "Organic Cotton T-Shirt", "organic-cotton-t-shirt",
			"Comfortable and sustainable organic cotton t-shirt perfect for everyday wear. Available in multiple colors.",
			"EcoWear", "Clothing", []string{"clothing", "organic", "sustainable", "cotton"},
			demoVariant{title: "Medium / White", price: "29.99", compareAt: "39.99", quantity: 100, options: []commerce.SelectedOption{opt("Size", "Medium"), opt("Color", "White")}}),
		demoProduct(4, "Stainless Steel Water Bottle", "stainless-steel-water-bottle",
			"Keep your drinks at the perfect temperature with this insulated stainless steel water bottle. 24oz capacity.",
			"HydroLife", "Accessories", []string{"accessories", "water bottle", "stainless steel", "insulated"},
			demoVariant{title: "Blue", price: "34.99", quantity: 75, options: []commerce.SelectedOption{opt("Color", "Blue")}}),
		demoProduct(5, "Wireless Charging Pad", "wireless-charging-pad",
			"Fast wireless charging pad compatible with all Qi-enabled devices. Sleek design with LED indicator.",
			"ChargeTech", "Electronics", []string{"electronics", "wireless charging", "accessories", "tech"},
			demoVariant{title: "Black", price: "49.99", compareAt: "69.99", quantity: 30, options: []commerce.SelectedOption{opt("Color", "Black")}}),
		demoProduct(6, "Bamboo Desk Organizer", "bamboo-desk-organizer",
			"Sustainable bamboo desk organizer with multiple compartments for pens, papers, and office supplies.",
			"EcoOffice", "Office", []string{"office", "bamboo", "organizer", "sustainable"},
			demoVariant{title: "Natural", price: "24.99", quantity: 40, options: []commerce.SelectedOption{opt("Finish", "Natural")}}),
		demoProduct(7, "LED Desk Lamp", "led-desk-lamp",
			"Adjustable LED desk lamp with touch controls, multiple brightness levels, and USB charging port.",
			"LightTech", "Lighting", []string{"lighting", "LED", "desk lamp", "adjustable"},
			demoVariant{title: "White", price: "79.99", compareAt: "99.99", quantity: 20, options: []commerce.SelectedOption{opt("Color", "White")}}),
		demoProduct(8, "Ceramic Coffee Mug Set", "ceramic-coffee-mug-set",
			"Set of 4 handcrafted ceramic coffee mugs with unique glazed finish. Perfect for your morning coffee.",
			"CraftWare", "Kitchen", []string{"kitchen", "ceramic", "coffee", "handcrafted"},
			demoVariant{title: "Mixed Colors", price: "39.99", quantity: 15, options: []commerce.SelectedOption{opt("Set", "Mixed Colors")}}),
	}
}
