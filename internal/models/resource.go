package models

type Resource struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	IsActive    bool   `yaml:"is_active" json:"is_active"`
}
