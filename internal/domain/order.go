package domain

// Order is write-once: it is created at checkout and never updated or
// deleted through this service.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Address   string      `json:"address"`
	Products  []OrderLine `json:"products"`
	Total     float64     `json:"total"`
	CreatedAt string      `json:"createdAt"`
}

// OrderLine is the snapshot of one cart line at checkout time.
type OrderLine struct {
	ProductID string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price times quantity for this line.
func (l OrderLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
