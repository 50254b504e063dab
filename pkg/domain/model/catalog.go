package model

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Option is one answer of a question. A higher weight means a stronger
// security posture.
type Option struct {
	Value  types.OptionValue
	Label  types.Localized
	Weight float64
	Weak   bool // explicitly flagged as inadequate regardless of weight
}

// Question is a single item of the questionnaire
type Question struct {
	ID       types.QuestionID
	Text     types.Localized
	Standard []string // compliance references, display only
	Weight   float64  // multiplier applied to option weights
	Options  []Option
}

// Option returns the option with the given value
func (q *Question) Option(value types.OptionValue) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// MinWeight returns the lowest option weight of the question
func (q *Question) MinWeight() float64 {
	if len(q.Options) == 0 {
		return 0
	}
	lowest := q.Options[0].Weight
	for _, opt := range q.Options[1:] {
		lowest = math.Min(lowest, opt.Weight)
	}
	return lowest
}

// MaxWeight returns the highest option weight of the question
func (q *Question) MaxWeight() float64 {
	if len(q.Options) == 0 {
		return 0
	}
	highest := q.Options[0].Weight
	for _, opt := range q.Options[1:] {
		highest = math.Max(highest, opt.Weight)
	}
	return highest
}

// MaxPoints returns the contribution of the best answer to the category score
func (q *Question) MaxPoints() float64 {
	return q.MaxWeight() * q.Weight
}

// Points returns the contribution of the given option to the category score
func (q *Question) Points(opt Option) float64 {
	return opt.Weight * q.Weight
}

// Category groups questions of one security domain
type Category struct {
	ID        types.CategoryID
	Name      types.Localized
	Weight    float64 // display only
	Questions []Question
}

type questionRef struct {
	category int
	question int
}

// Catalog is the immutable, validated questionnaire. It is built once by
// NewCatalog and is safe for concurrent reads.
type Catalog struct {
	version     string
	policy      Policy
	categories  []Category
	byCategory  map[types.CategoryID]int
	byQuestion  map[types.QuestionID]questionRef
	questionIDs []types.QuestionID // declaration order
}

// NewCatalog validates the definition and builds the lookup indexes
func NewCatalog(version string, policy Policy, categories []Category) (*Catalog, error) {
	if err := policy.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid catalog policy", goerr.V(VersionKey, version))
	}
	if len(categories) == 0 {
		return nil, goerr.Wrap(ErrInvalidCatalog, "catalog requires at least one category", goerr.V(VersionKey, version))
	}

	c := &Catalog{
		version:    version,
		policy:     policy,
		categories: cloneCategories(categories),
		byCategory: make(map[types.CategoryID]int),
		byQuestion: make(map[types.QuestionID]questionRef),
	}

	for ci, cat := range c.categories {
		if err := validateCategory(cat); err != nil {
			return nil, goerr.Wrap(err, "invalid category", goerr.V(CategoryIDKey, cat.ID), goerr.V(VersionKey, version))
		}
		if _, exists := c.byCategory[cat.ID]; exists {
			return nil, goerr.Wrap(ErrDuplicateID, "duplicate category ID", goerr.V(CategoryIDKey, cat.ID))
		}
		c.byCategory[cat.ID] = ci

		for qi, q := range cat.Questions {
			if err := validateQuestion(q); err != nil {
				return nil, goerr.Wrap(err, "invalid question",
					goerr.V(CategoryIDKey, cat.ID),
					goerr.V(QuestionIDKey, q.ID),
					goerr.V(VersionKey, version))
			}
			if _, exists := c.byQuestion[q.ID]; exists {
				return nil, goerr.Wrap(ErrDuplicateID, "duplicate question ID",
					goerr.V(QuestionIDKey, q.ID),
					goerr.V(CategoryIDKey, cat.ID))
			}
			c.byQuestion[q.ID] = questionRef{category: ci, question: qi}
			c.questionIDs = append(c.questionIDs, q.ID)
		}
	}

	return c, nil
}

func validateCategory(cat Category) error {
	if err := cat.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidCatalog, err.Error())
	}
	if missing := cat.Name.Missing(); len(missing) > 0 {
		return goerr.Wrap(ErrMissingLocale, "category name is missing locales", goerr.V(LocaleKey, missing))
	}
	if !isWeight(cat.Weight) {
		return goerr.Wrap(ErrInvalidWeight, "category weight must be a finite non-negative number", goerr.V(WeightKey, cat.Weight))
	}
	if len(cat.Questions) == 0 {
		return goerr.Wrap(ErrEmptyCategory, "category has no question")
	}
	return nil
}

func validateQuestion(q Question) error {
	if err := q.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidCatalog, err.Error())
	}
	if missing := q.Text.Missing(); len(missing) > 0 {
		return goerr.Wrap(ErrMissingLocale, "question text is missing locales", goerr.V(LocaleKey, missing))
	}
	if !isWeight(q.Weight) || q.Weight == 0 {
		return goerr.Wrap(ErrInvalidWeight, "question weight must be a finite positive number", goerr.V(WeightKey, q.Weight))
	}
	if len(q.Options) < 2 {
		return goerr.Wrap(ErrTooFewOptions, "question has too few options", goerr.V("option_count", len(q.Options)))
	}

	values := make(map[types.OptionValue]bool)
	for _, opt := range q.Options {
		if err := opt.Value.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidCatalog, err.Error())
		}
		if values[opt.Value] {
			return goerr.Wrap(ErrDuplicateID, "duplicate option value", goerr.V(OptionValueKey, opt.Value))
		}
		values[opt.Value] = true

		if missing := opt.Label.Missing(); len(missing) > 0 {
			return goerr.Wrap(ErrMissingLocale, "option label is missing locales",
				goerr.V(OptionValueKey, opt.Value),
				goerr.V(LocaleKey, missing))
		}
		if !isWeight(opt.Weight) {
			return goerr.Wrap(ErrInvalidWeight, "option weight must be a finite non-negative number",
				goerr.V(OptionValueKey, opt.Value),
				goerr.V(WeightKey, opt.Weight))
		}
	}
	return nil
}

// cloneCategories deep-copies the definition so later changes by the caller
// cannot leak into the catalog
func cloneCategories(src []Category) []Category {
	dst := make([]Category, len(src))
	for i, cat := range src {
		dst[i] = cat
		dst[i].Questions = make([]Question, len(cat.Questions))
		for j, q := range cat.Questions {
			dst[i].Questions[j] = q
			dst[i].Questions[j].Standard = append([]string(nil), q.Standard...)
			dst[i].Questions[j].Options = append([]Option(nil), q.Options...)
		}
	}
	return dst
}

func isWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}

// Version returns the catalog version
func (c *Catalog) Version() string {
	return c.version
}

// Policy returns the scoring policy of the catalog
func (c *Catalog) Policy() Policy {
	return c.policy
}

// Categories returns all categories in declaration order. The returned
// values must be treated as read-only.
func (c *Catalog) Categories() []Category {
	result := make([]Category, len(c.categories))
	copy(result, c.categories)
	return result
}

// Category retrieves a category by ID
func (c *Catalog) Category(id types.CategoryID) (*Category, error) {
	idx, ok := c.byCategory[id]
	if !ok {
		return nil, goerr.Wrap(ErrCategoryNotFound, "category not found", goerr.V(CategoryIDKey, id))
	}
	return &c.categories[idx], nil
}

// Question retrieves a question and the ID of its category
func (c *Catalog) Question(id types.QuestionID) (*Question, types.CategoryID, error) {
	ref, ok := c.byQuestion[id]
	if !ok {
		return nil, "", goerr.Wrap(ErrUnknownQuestion, "question not found", goerr.V(QuestionIDKey, id))
	}
	cat := &c.categories[ref.category]
	return &cat.Questions[ref.question], cat.ID, nil
}

// AllQuestionIDs returns every question ID in declaration order
func (c *Catalog) AllQuestionIDs() []types.QuestionID {
	result := make([]types.QuestionID, len(c.questionIDs))
	copy(result, c.questionIDs)
	return result
}

// QuestionCount returns the number of questions in the catalog
func (c *Catalog) QuestionCount() int {
	return len(c.questionIDs)
}
