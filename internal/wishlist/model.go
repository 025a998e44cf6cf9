package wishlist

type Item struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"imgUrl"`
}

type Outcome int

const (
	Added Outcome = iota + 1
	AlreadyExists
	Removed
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyExists:
		return "already_exists"
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
