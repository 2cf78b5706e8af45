package config

// CatalogConfig holds recipe catalog configuration
type CatalogConfig struct {
	// Recipe source file read when no stored catalog is selected
	File string `mapstructure:"file" validate:"required"`

	// Facility assigned to recipes that omit one
	DefaultFacility string `mapstructure:"default_facility" validate:"required"`

	// Refuse catalogs where a resource has both raw and processed producers
	Strict bool `mapstructure:"strict"`
}
