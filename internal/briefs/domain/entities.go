package domain

// Entity is anything that can be written to a document collection.
type Entity interface {
	Collection() string
	Document() map[string]any
}

const (
	CollectionUser    = "user"
	CollectionProduct = "product"
)

type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Age      *int   `json:"age"`
	IsActive bool   `json:"is_active"`
}

func ParseUser(in map[string]any) (User, error) {
	r := newFieldReader(in)
	u := User{
		Name:     r.requiredString("name", false),
		Email:    r.requiredString("email", false),
		Address:  r.requiredString("address", false),
		Age:      r.optionalIntRange("age", 0, 120),
		IsActive: r.boolOr("is_active", true),
	}
	if err := r.result("User"); err != nil {
		return User{}, err
	}
	return u, nil
}

func (u User) Collection() string { return CollectionUser }

func (u User) Document() map[string]any {
	var age any
	if u.Age != nil {
		age = *u.Age
	}
	return map[string]any{
		"name":      u.Name,
		"email":     u.Email,
		"address":   u.Address,
		"age":       age,
		"is_active": u.IsActive,
	}
}

type Product struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"in_stock"`
}

func ParseProduct(in map[string]any) (Product, error) {
	r := newFieldReader(in)
	p := Product{
		Title:       r.requiredString("title", false),
		Description: r.optionalString("description"),
		Price:       r.requiredNumber("price", 0),
		Category:    r.requiredString("category", false),
		InStock:     r.boolOr("in_stock", true),
	}
	if err := r.result("Product"); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) Collection() string { return CollectionProduct }

func (p Product) Document() map[string]any {
	return map[string]any{
		"title":       p.Title,
		"description": nullable(p.Description),
		"price":       p.Price,
		"category":    p.Category,
		"in_stock":    p.InStock,
	}
}
