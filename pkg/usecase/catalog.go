package usecase

import (
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// CategoryStats summarizes one category
type CategoryStats struct {
	ID             types.CategoryID
	Name           types.Localized
	QuestionsCount int
	Weight         float64
}

// CatalogStats summarizes the catalog
type CatalogStats struct {
	TotalQuestions  int
	CategoriesCount int
	Categories      []CategoryStats
}

type CatalogUseCase struct {
	catalog       *model.Catalog
	defaultLocale types.Locale
}

func NewCatalogUseCase(catalog *model.Catalog, defaultLocale types.Locale) *CatalogUseCase {
	return &CatalogUseCase{
		catalog:       catalog,
		defaultLocale: defaultLocale,
	}
}

// Catalog returns the loaded catalog
func (uc *CatalogUseCase) Catalog() *model.Catalog {
	return uc.catalog
}

// Category returns a category or model.ErrCategoryNotFound
func (uc *CatalogUseCase) Category(id types.CategoryID) (*model.Category, error) {
	return uc.catalog.Category(id)
}

// ResolveLocale returns l when supported, otherwise the default locale
func (uc *CatalogUseCase) ResolveLocale(l types.Locale) types.Locale {
	return l.Or(uc.defaultLocale)
}

// Stats returns question counts per category
func (uc *CatalogUseCase) Stats() CatalogStats {
	categories := uc.catalog.Categories()
	stats := CatalogStats{
		TotalQuestions:  uc.catalog.QuestionCount(),
		CategoriesCount: len(categories),
		Categories:      make([]CategoryStats, len(categories)),
	}
	for i, cat := range categories {
		stats.Categories[i] = CategoryStats{
			ID:             cat.ID,
			Name:           cat.Name,
			QuestionsCount: len(cat.Questions),
			Weight:         cat.Weight,
		}
	}
	return stats
}
