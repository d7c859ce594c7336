package models

// User is a registered account. The password field holds a bcrypt hash,
// never the plaintext credential, and is excluded from JSON.
type User struct {
	ID       string `json:"id" validate:"omitempty,uuid"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"-" validate:"required,min=6"`
	Mobile   string `json:"mobile" validate:"required,min=7,max=15"`
	Address  string `json:"address" validate:"required"`
}

// Profile is the editable profile blob persisted under its own key.
type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Address is a saved delivery address. At most one address per user is the
// default at any time.
type Address struct {
	ID        string `json:"id"`
	Label     string `json:"label" validate:"required"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required,min=4,max=10"`
	IsDefault bool   `json:"isDefault"`
}
