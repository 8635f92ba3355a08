package entity

// Category is an entry of the static category catalogue.
type Category struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	ImageURL    string `json:"image_url" yaml:"image_url"`
	Color       string `json:"color" yaml:"color"`
}
