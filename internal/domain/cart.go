package domain

// CartLine represents one row of the shopping cart. Display fields are
// snapshotted at add-time and not refreshed if the catalog later changes.
// JSON tags match the persisted "carrito" format.
type CartLine struct {
	ProductID int64  `json:"producto_id"`
	Name      string `json:"nombre"`
	UnitPrice int64  `json:"precio"`
	ImageRef  string `json:"img,omitempty"`
	Quantity  int    `json:"cantidad"`
	Subtotal  int64  `json:"subtotal"`
}

// Recalculate recomputes the derived subtotal from unit price and quantity.
// It must be called after every mutation that touches Quantity.
func (l *CartLine) Recalculate() {
	l.Subtotal = l.UnitPrice * int64(l.Quantity)
}

// Cart is the ordered sequence of cart lines; insertion order is display order.
// At most one line exists per distinct product.
type Cart struct {
	Lines []CartLine
}

// Total returns the sum of all line subtotals (in whole pesos).
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Subtotal
	}
	return total
}

// ItemCount returns the number of distinct lines in the cart. This is the
// figure shown on the cart badge.
func (c *Cart) ItemCount() int {
	return len(c.Lines)
}

// IsEmpty reports whether the cart has no lines. An empty cart blocks
// checkout submission.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the index of the line for the given product, or -1.
func (c *Cart) FindLine(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
