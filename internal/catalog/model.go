package catalog

type Product struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	ImageURL    string `json:"imgUrl"`
}

// NewProduct is the admin input for Create.
type NewProduct struct {
	Category    string
	SubCategory string
	Name        string
	Price       string
	ImageURL    string
}

// Listing is the catalog grouped by facet value.
type Listing struct {
	Products      []Product            `json:"products"`
	Categories    map[string][]Product `json:"categories"`
	SubCategories map[string][]Product `json:"subCategories"`
}

// Facets shown on the home and products pages.
var (
	HomeCategories    = []string{"Supplements", "Accessories"}
	HomeSubCategories = []string{"Towels", "Bags", "T-shirt", "Hoodies"}
)
