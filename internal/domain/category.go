package domain

// Category is the first level of the ticket taxonomy.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory always belongs to exactly one category.
type Subcategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

// CategoryInput is the create/update shape of a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// SubcategoryInput is the create shape of a subcategory. Updates send the name only.
type SubcategoryInput struct {
	Name       string `json:"name" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
}
