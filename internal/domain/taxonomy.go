package domain

// Subcategory is one named keyword group inside a taxonomy category.
type Subcategory struct {
	Name     string
	Keywords []string
}

// Category is an ordered list of subcategories. Ordering matters: keyword
// extraction iterates categories and subcategories in declaration order so
// that results are deterministic.
type Category struct {
	Name          string
	Subcategories []Subcategory
}

// Taxonomy is the static category -> subcategory -> keyword mapping used for
// lexical preference matching. Loaded once at startup and read-only
// afterwards; safe for unlimited concurrent readers.
type Taxonomy struct {
	Categories []Category
}

// Names returns the category names in declaration order.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}

// DefaultTaxonomy returns the built-in food/fashion shopping taxonomy.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Categories: []Category{
			{
				Name: CategoryFood,
				Subcategories: []Subcategory{
					{Name: "snacks", Keywords: []string{"chips", "cookies", "crackers", "nuts", "protein bars", "energy bites"}},
					{Name: "breakfast", Keywords: []string{"cereals", "oats", "bread", "pancakes", "smoothies", "bars"}},
					{Name: "beverages", Keywords: []string{"tea", "coffee", "juice", "smoothies", "protein shakes"}},
					{Name: "healthy", Keywords: []string{"organic", "vegan", "gluten-free", "protein-rich", "low-sugar"}},
					{Name: "traditional", Keywords: []string{"millet", "quinoa", "chia seeds", "ancient grains"}},
				},
			},
			{
				Name: CategoryFashion,
				Subcategories: []Subcategory{
					{Name: "ethnic", Keywords: []string{"kurta", "saree", "lehenga", "palazzo", "dupatta", "traditional"}},
					{Name: "casual", Keywords: []string{"t-shirt", "jeans", "shorts", "hoodie", "sneakers", "casual wear"}},
					{Name: "formal", Keywords: []string{"shirt", "pants", "blazer", "dress", "formal wear", "office wear"}},
					{Name: "seasonal", Keywords: []string{"summer", "winter", "monsoon", "cotton", "linen", "warm"}},
					{Name: "style", Keywords: []string{"trendy", "classic", "modern", "vintage", "bohemian", "minimalist"}},
				},
			},
		},
	}
}
