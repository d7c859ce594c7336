package models

// Shop is a laundry service center. Catalog data is reference-only; the
// order core never creates or mutates shops.
type Shop struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Distance string  `json:"distance"`
	ImageURL string  `json:"imageUrl"`
	Rating   float64 `json:"rating"`
}

// ServiceCategory groups services on the home screen (Washing, Ironing...).
type ServiceCategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Service is one orderable laundry item with its unit price.
type Service struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
	ImageURL string  `json:"imageUrl"`
}
