package models

// Plan is catalog entry
type Plan struct {
	ID   int    `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
	// Price in cents
	Price       int64  `json:"price" mapstructure:"price"`
	Description string `json:"description" mapstructure:"description"`
}
