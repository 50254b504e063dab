package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/domain/model"
)

func TestPercent(t *testing.T) {
	gt.Value(t, model.Percent(1, 2)).Equal(50.0)
	gt.Value(t, model.Percent(0, 0)).Equal(0.0)
	gt.Value(t, model.Percent(3, 3)).Equal(100.0)
}

func TestRound(t *testing.T) {
	gt.Value(t, model.Round(100.0/3)).Equal(33.33)
	gt.Value(t, model.Round(200.0/3)).Equal(66.67)
	gt.Value(t, model.Round(50)).Equal(50.0)
}

func TestScore_Category(t *testing.T) {
	s := model.Score{Categories: []model.CategoryScore{{CategoryID: "iam", Score: 1}}}

	cs, ok := s.Category("iam")
	gt.Bool(t, ok).True()
	gt.Value(t, cs.Score).Equal(1.0)

	_, ok = s.Category("net")
	gt.Bool(t, ok).False()
}
