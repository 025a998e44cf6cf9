package cart

// ShippingFee is the flat surcharge added to every cart total, in whole currency units.
const ShippingFee int64 = 20

// Item is one (user, product) row. Name, price and image are copied from the
// product when the row is first inserted.
type Item struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"imgUrl"`
	Quantity  int    `json:"quantity"`
}

// Line is a rendered cart row. Total is Quantity times the truncated unit price.
type Line struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"imgUrl"`
	Quantity  int    `json:"quantity"`
	Total     int64  `json:"total"`
}

type Summary struct {
	Lines                  []Line `json:"lines"`
	GrandTotal             int64  `json:"grandTotal"`
	GrandTotalPlusShipping int64  `json:"grandTotalPlusShipping"`
}

type Outcome int

const (
	Added Outcome = iota + 1
	Incremented
	Removed
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Incremented:
		return "incremented"
	case Removed:
		return "removed"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type Result struct {
	Outcome Outcome
	Item    Item
}
