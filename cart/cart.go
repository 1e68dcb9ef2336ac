package cart

import "errors"

// ErrStockExceeded is returned when an add or update would push a line's
// quantity above its stock limit. The cart is returned unchanged so callers
// can distinguish a refused mutation from one that was already satisfied.
var ErrStockExceeded = errors.New("quantity exceeds available stock")

// Line is one product+size entry in a cart. UnitPrice is in minor currency
// units (cents); totals stay in integer arithmetic end to end. Identity is
// (ProductID, Size); no two lines in a cart share a key.
type Line struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock"`
}

// Cart is an insertion-ordered collection of lines. The zero value is an
// empty, usable cart. Mutating operations are value-based: they return a new
// cart and never alias the input's line slice.
type Cart struct {
	Lines []Line `json:"items"`
}

// ItemCount is the sum of all line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Total is the cart total in minor units.
func (c Cart) Total() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += int64(l.Quantity) * l.UnitPrice
	}
	return sum
}

// Find returns the line with the given identity, if present.
func (c Cart) Find(productID, size string) (Line, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID && l.Size == size {
			return l, true
		}
	}
	return Line{}, false
}

// Add merges a line into the cart. A non-positive requested quantity counts
// as 1. If a line with the same identity exists the quantities are summed;
// a result above the existing line's stock limit refuses the whole mutation
// with ErrStockExceeded rather than clamping.
func (c Cart) Add(line Line) (Cart, error) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	for i, existing := range c.Lines {
		if existing.ProductID != line.ProductID || existing.Size != line.Size {
			continue
		}
		merged := existing.Quantity + line.Quantity
		if merged > existing.Stock {
			return c, ErrStockExceeded
		}
		lines := c.copyLines()
		lines[i].Quantity = merged
		return Cart{Lines: lines}, nil
	}
	if line.Quantity > line.Stock {
		return c, ErrStockExceeded
	}
	lines := c.copyLines()
	return Cart{Lines: append(lines, line)}, nil
}

// UpdateQuantity sets a line's quantity outright. Zero or negative removes
// the line. A quantity above the line's stock limit is refused with
// ErrStockExceeded. A missing line is a nil-error no-op so that stale client
// state stays idempotent.
func (c Cart) UpdateQuantity(productID, size string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c.Remove(productID, size), nil
	}
	for i, existing := range c.Lines {
		if existing.ProductID != productID || existing.Size != size {
			continue
		}
		if quantity > existing.Stock {
			return c, ErrStockExceeded
		}
		lines := c.copyLines()
		lines[i].Quantity = quantity
		return Cart{Lines: lines}, nil
	}
	return c, nil
}

// Remove drops the line with the given identity. Removing an absent line
// returns the cart unchanged.
func (c Cart) Remove(productID, size string) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.ProductID == productID && l.Size == size {
			continue
		}
		lines = append(lines, l)
	}
	return Cart{Lines: lines}
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) copyLines() []Line {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}
