package model

import (
	"sort"

	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// ResponseSet maps a question to the chosen option value
type ResponseSet map[types.QuestionID]types.OptionValue

// QuestionIDs returns the answered question IDs in lexical order
func (rs ResponseSet) QuestionIDs() []types.QuestionID {
	ids := make([]types.QuestionID, 0, len(rs))
	for id := range rs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns a copy of the response set
func (rs ResponseSet) Clone() ResponseSet {
	cloned := make(ResponseSet, len(rs))
	for k, v := range rs {
		cloned[k] = v
	}
	return cloned
}

// AppInfo is free-form metadata about the assessed application. It is
// carried through to the result unchanged.
type AppInfo struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Contact     string `json:"contact" masq:"secret"`
	Environment string `json:"environment"`
	Description string `json:"description"`
}
