package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedID() string { return "00000000-0000-0000-0000-000000000001" }

func localized(fr, en string) types.Localized {
	return types.Localized{FR: fr, EN: en}
}

func yesNo() []model.Option {
	return []model.Option{
		{Value: "0", Label: localized("Non", "No"), Weight: 0, Weak: true},
		{Value: "5", Label: localized("Partiel", "Partial"), Weight: 5},
		{Value: "10", Label: localized("Oui", "Yes"), Weight: 10},
	}
}

// newCatalog returns two categories with two questions each
func newCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	c, err := model.NewCatalog("test", model.DefaultPolicy(), []model.Category{
		{
			ID:     "iam",
			Name:   localized("Identités", "Identity"),
			Weight: 1.5,
			Questions: []model.Question{
				{ID: "iam-001", Text: localized("MFA ?", "MFA?"), Weight: 1, Standard: []string{"ISO27001 A.9.4.2"}, Options: yesNo()},
				{ID: "iam-002", Text: localized("Revue ?", "Review?"), Weight: 1, Options: yesNo()},
			},
		},
		{
			ID:     "net",
			Name:   localized("Réseau", "Network"),
			Weight: 1,
			Questions: []model.Question{
				{ID: "net-001", Text: localized("Pare-feu ?", "Firewall?"), Weight: 1, Options: yesNo()},
				{ID: "net-002", Text: localized("Chiffrement ?", "Encryption?"), Weight: 1, Options: yesNo()},
			},
		},
	})
	gt.NoError(t, err).Required()
	return c
}

func fullResponses() model.ResponseSet {
	return model.ResponseSet{"iam-001": "10", "iam-002": "5", "net-001": "0", "net-002": "10"}
}
