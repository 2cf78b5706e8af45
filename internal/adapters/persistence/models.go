package persistence

import (
	"time"
)

// CatalogModel represents the recipe_catalogs table
type CatalogModel struct {
	Name       string    `gorm:"column:name;primaryKey"`
	Source     string    `gorm:"column:source;not null"`
	ImportedAt time.Time `gorm:"column:imported_at;not null"`
}

func (CatalogModel) TableName() string {
	return "recipe_catalogs"
}

// RecipeModel represents the recipes table.
// Position keeps the source order of the catalog, which every query preserves.
type RecipeModel struct {
	ID          int     `gorm:"column:id;primaryKey;autoIncrement"`
	CatalogName string  `gorm:"column:catalog_name;not null;index:idx_recipes_catalog_position,priority:1"`
	Position    int     `gorm:"column:position;not null;index:idx_recipes_catalog_position,priority:2"`
	Name        string  `gorm:"column:name;not null"`
	Facility    string  `gorm:"column:facility;not null"`
	Time        float64 `gorm:"column:time;not null;default:0"`
	Raw         bool    `gorm:"column:raw;not null;default:false"`
	Inputs      string  `gorm:"column:inputs;type:text"`  // JSON array of {name, count}
	Outputs     string  `gorm:"column:outputs;type:text"` // JSON array of {name, count}
}

func (RecipeModel) TableName() string {
	return "recipes"
}
