package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// ErrCatalogNotFound is returned when no catalog is stored under a name
var ErrCatalogNotFound = errors.New("catalog not found")

// GormCatalogRepository implements recipe.CatalogRepository using GORM
type GormCatalogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db, now: time.Now}
}

// Save replaces the named catalog and all its recipes in one transaction
func (r *GormCatalogRepository) Save(ctx context.Context, name, source string, catalog *recipe.Catalog) error {
	recipes := catalog.Recipes()
	models := make([]RecipeModel, 0, len(recipes))
	for i, rec := range recipes {
		model, err := r.recipeToModel(name, i, rec)
		if err != nil {
			return fmt.Errorf("failed to convert recipe '%s' to model: %w", rec.Name, err)
		}
		models = append(models, *model)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("catalog_name = ?", name).Delete(&RecipeModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipes: %w", err)
		}

		header := &CatalogModel{
			Name:       name,
			Source:     source,
			ImportedAt: r.now().UTC(),
		}
		if err := tx.Save(header).Error; err != nil {
			return fmt.Errorf("failed to save catalog: %w", err)
		}

		if len(models) > 0 {
			if err := tx.CreateInBatches(models, 100).Error; err != nil {
				return fmt.Errorf("failed to save recipes: %w", err)
			}
		}
		return nil
	})
}

// Load rebuilds the named catalog in source order
func (r *GormCatalogRepository) Load(ctx context.Context, name string) (*recipe.Catalog, error) {
	var header CatalogModel
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&header)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
		}
		return nil, fmt.Errorf("failed to find catalog: %w", result.Error)
	}

	var models []RecipeModel
	result = r.db.WithContext(ctx).
		Where("catalog_name = ?", name).
		Order("position ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", result.Error)
	}

	recipes := make([]recipe.Recipe, 0, len(models))
	for i := range models {
		rec, err := r.modelToRecipe(&models[i])
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}

	catalog, err := recipe.NewCatalog(recipes)
	if err != nil {
		return nil, fmt.Errorf("stored catalog '%s' is invalid: %w", name, err)
	}
	return catalog, nil
}

// List returns every stored catalog ordered by name
func (r *GormCatalogRepository) List(ctx context.Context) ([]recipe.CatalogInfo, error) {
	var headers []CatalogModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&headers).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}

	type countRow struct {
		CatalogName string
		Total       int
	}
	var counts []countRow
	err := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Select("catalog_name, COUNT(*) AS total").
		Group("catalog_name").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	totals := make(map[string]int, len(counts))
	for _, c := range counts {
		totals[c.CatalogName] = c.Total
	}

	infos := make([]recipe.CatalogInfo, 0, len(headers))
	for _, h := range headers {
		infos = append(infos, recipe.CatalogInfo{
			Name:        h.Name,
			Source:      h.Source,
			RecipeCount: totals[h.Name],
			ImportedAt:  h.ImportedAt,
		})
	}
	return infos, nil
}

// Delete removes the named catalog and its recipes
func (r *GormCatalogRepository) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("name = ?", name).Delete(&CatalogModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete catalog: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
		}

		if err := tx.Where("catalog_name = ?", name).Delete(&RecipeModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipes: %w", err)
		}
		return nil
	})
}

// recipeToModel converts a domain recipe to a database model
func (r *GormCatalogRepository) recipeToModel(catalogName string, position int, rec recipe.Recipe) (*RecipeModel, error) {
	inputs, err := json.Marshal(rec.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inputs: %w", err)
	}
	outputs, err := json.Marshal(rec.Outputs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outputs: %w", err)
	}

	return &RecipeModel{
		CatalogName: catalogName,
		Position:    position,
		Name:        rec.Name,
		Facility:    rec.Facility,
		Time:        rec.Time,
		Raw:         rec.Raw,
		Inputs:      string(inputs),
		Outputs:     string(outputs),
	}, nil
}

// modelToRecipe converts a database model to a domain recipe
func (r *GormCatalogRepository) modelToRecipe(model *RecipeModel) (recipe.Recipe, error) {
	inputs := make([]recipe.ItemStack, 0)
	if model.Inputs != "" {
		if err := json.Unmarshal([]byte(model.Inputs), &inputs); err != nil {
			return recipe.Recipe{}, fmt.Errorf("failed to unmarshal inputs of recipe '%s': %w", model.Name, err)
		}
	}

	var outputs []recipe.ItemStack
	if err := json.Unmarshal([]byte(model.Outputs), &outputs); err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to unmarshal outputs of recipe '%s': %w", model.Name, err)
	}

	return recipe.Recipe{
		Name:     model.Name,
		Facility: model.Facility,
		Time:     model.Time,
		Raw:      model.Raw,
		Inputs:   inputs,
		Outputs:  outputs,
	}, nil
}
