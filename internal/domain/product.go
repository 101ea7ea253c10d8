package domain

import "fmt"

// Product is a catalog item shown on the detail page.
type Product struct {
	ID      int64  `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Price   int64  `json:"price" yaml:"price"`
}

// ImageURL returns the product image path. Image files are numbered from 1
// while product ids start at 0.
func (p Product) ImageURL() string {
	return fmt.Sprintf("/images/shoes%d.jpg", p.ID+1)
}
