package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// ResponseValidator validates response sets against a catalog
type ResponseValidator struct {
	catalog *Catalog
}

// NewResponseValidator creates a new ResponseValidator for the given catalog
func NewResponseValidator(catalog *Catalog) *ResponseValidator {
	return &ResponseValidator{
		catalog: catalog,
	}
}

// Validate checks that every answered question exists and that the chosen
// option belongs to it. Questions are checked in lexical order so the same
// invalid set always reports the same error.
func (v *ResponseValidator) Validate(rs ResponseSet) error {
	for _, qid := range rs.QuestionIDs() {
		q, categoryID, err := v.catalog.Question(qid)
		if err != nil {
			return err
		}

		value := rs[qid]
		if _, ok := q.Option(value); !ok {
			return goerr.Wrap(ErrInvalidOption, "option is not defined for question",
				goerr.V(CategoryIDKey, categoryID),
				goerr.V(QuestionIDKey, qid),
				goerr.V(OptionValueKey, value))
		}
	}
	return nil
}

// Missing returns the unanswered question IDs in catalog order
func (v *ResponseValidator) Missing(rs ResponseSet) []types.QuestionID {
	var missing []types.QuestionID
	for _, qid := range v.catalog.AllQuestionIDs() {
		if _, ok := rs[qid]; !ok {
			missing = append(missing, qid)
		}
	}
	return missing
}

// Progress returns the number of answered catalog questions and the total
func (v *ResponseValidator) Progress(rs ResponseSet) (answered, total int) {
	total = v.catalog.QuestionCount()
	return total - len(v.Missing(rs)), total
}
