package domain

// Item is one dish line in the customer's cart.
type Item struct {
	DishID    string  `json:"dishId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Notes     string  `json:"notes,omitempty"`
}

// Cart is the pre-checkout order draft. It never leaves the edge in clear
// text; at rest it is sealed with the configured cart secret.
type Cart struct {
	Items []Item `json:"items"`
}

// Empty reports whether the cart holds no lines.
func (c Cart) Empty() bool { return len(c.Items) == 0 }

// Total is the sum of all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}
