package types_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

func TestCategoryID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.CategoryID
		wantErr bool
	}{
		{"valid lowercase", "data-security", false},
		{"valid single word", "iam", false},
		{"valid with underscore", "app_sec", false},
		{"valid with numbers", "net-123", false},
		{"empty", "", true},
		{"uppercase", "Data-Security", true},
		{"spaces", "data security", true},
		{"starting with hyphen", "-data", true},
		{"ending with underscore", "data_", true},
		{"double hyphen", "data--security", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CategoryID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuestionID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.QuestionID
		wantErr bool
	}{
		{"valid short", "q1", false},
		{"valid legacy style", "iam_001", false},
		{"valid hyphen", "iam-001", false},
		{"empty", "", true},
		{"uppercase", "IAM-001", true},
		{"dot", "iam.001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("QuestionID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionValue_Validate(t *testing.T) {
	gt.NoError(t, types.OptionValue("strong").Validate())
	gt.NoError(t, types.OptionValue("10").Validate())
	gt.Value(t, types.OptionValue("").Validate()).NotNil()
	gt.Value(t, types.OptionValue("   ").Validate()).NotNil()
	gt.Value(t, types.OptionValue(" weak").Validate()).NotNil()
}

func TestOptionValue_UnmarshalJSON(t *testing.T) {
	t.Run("string and number decode to the same token", func(t *testing.T) {
		var m map[string]types.OptionValue
		gt.NoError(t, json.Unmarshal([]byte(`{"a":"10","b":10,"c":"partial","d":2.5}`), &m)).Required()
		gt.Value(t, m["a"]).Equal(types.OptionValue("10"))
		gt.Value(t, m["b"]).Equal(types.OptionValue("10"))
		gt.Value(t, m["c"]).Equal(types.OptionValue("partial"))
		gt.Value(t, m["d"]).Equal(types.OptionValue("2.5"))
	})

	t.Run("equal numbers decode to the same token", func(t *testing.T) {
		var m map[string]types.OptionValue
		gt.NoError(t, json.Unmarshal([]byte(`{"a":2,"b":2.0,"c":2e0,"d":0.50}`), &m)).Required()
		gt.Value(t, m["a"]).Equal(types.OptionValue("2"))
		gt.Value(t, m["b"]).Equal(types.OptionValue("2"))
		gt.Value(t, m["c"]).Equal(types.OptionValue("2"))
		gt.Value(t, m["d"]).Equal(types.OptionValue("0.5"))
	})

	t.Run("rejects objects and booleans", func(t *testing.T) {
		var v types.OptionValue
		gt.Value(t, json.Unmarshal([]byte(`true`), &v)).NotNil()
		gt.Value(t, json.Unmarshal([]byte(`{"x":1}`), &v)).NotNil()
	})
}

func TestOptionValueOf(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want types.OptionValue
	}{
		{name: "string", raw: "partial", want: "partial"},
		{name: "numeric string is kept", raw: "2.0", want: "2.0"},
		{name: "int", raw: 5, want: "5"},
		{name: "int64", raw: int64(10), want: "10"},
		{name: "uint64", raw: uint64(3), want: "3"},
		{name: "float", raw: 2.0, want: "2"},
		{name: "fraction", raw: 2.5, want: "2.5"},
		{name: "json number", raw: json.Number("1.0"), want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := types.OptionValueOf(tt.raw)
			gt.NoError(t, err).Required()
			gt.Value(t, v).Equal(tt.want)
		})
	}

	t.Run("rejects other types", func(t *testing.T) {
		_, err := types.OptionValueOf(true)
		gt.Value(t, err).NotNil()
		_, err = types.OptionValueOf(nil)
		gt.Value(t, err).NotNil()
	})
}

func TestLocale(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		l, err := types.ParseLocale("EN")
		gt.NoError(t, err).Required()
		gt.Value(t, l).Equal(types.LocaleEN)

		_, err = types.ParseLocale("de")
		gt.Value(t, err).NotNil()
	})

	t.Run("fallback", func(t *testing.T) {
		gt.Value(t, types.Locale("de").Or(types.LocaleFR)).Equal(types.LocaleFR)
		gt.Value(t, types.LocaleEN.Or(types.LocaleFR)).Equal(types.LocaleEN)
	})
}

func TestLocalized(t *testing.T) {
	text := types.Localized{FR: "Bonjour", EN: "Hello"}

	gt.Value(t, text.Get(types.LocaleEN, types.LocaleFR)).Equal("Hello")
	gt.Value(t, text.Get(types.LocaleFR, types.LocaleEN)).Equal("Bonjour")
	gt.Value(t, text.Get(types.Locale("de"), types.LocaleFR)).Equal("Bonjour")

	partial := types.Localized{FR: "Bonjour"}
	gt.Value(t, partial.Get(types.LocaleEN, types.LocaleFR)).Equal("Bonjour")
	gt.Array(t, partial.Missing()).Length(1)
	gt.Value(t, partial.Missing()[0]).Equal(types.LocaleEN)
	gt.Array(t, text.Missing()).Length(0)
}

func TestRiskLevel_Priority(t *testing.T) {
	tests := []struct {
		level    types.RiskLevel
		priority types.Priority
		code     string
	}{
		{types.RiskLevelCritical, types.PriorityHigh, "FULL_AUDIT_REQUIRED"},
		{types.RiskLevelHigh, types.PriorityHigh, "FULL_AUDIT_REQUIRED"},
		{types.RiskLevelMedium, types.PriorityMedium, "TARGETED_AUDIT_RECOMMENDED"},
		{types.RiskLevelLow, types.PriorityLow, "LIGHT_REVIEW"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			gt.Value(t, tt.level.Priority()).Equal(tt.priority)
			gt.Value(t, tt.level.Priority().Recommendation()).Equal(tt.code)
			gt.Array(t, tt.level.Text().Missing()).Length(0)
			gt.Array(t, tt.priority.Text().Missing()).Length(0)
			gt.String(t, tt.level.Color()).Match(`^#[0-9a-f]{6}$`)
		})
	}
}

func TestRiskLevel_Color(t *testing.T) {
	gt.Value(t, types.RiskLevelLow.Color()).Equal("#10b981")
	gt.Value(t, types.RiskLevelMedium.Color()).Equal("#f59e0b")
	gt.Value(t, types.RiskLevelHigh.Color()).Equal("#ef4444")
	gt.Value(t, types.RiskLevelCritical.Color()).Equal("#dc2626")
	gt.Value(t, types.RiskLevel("UNKNOWN").Color()).Equal("")
}

func TestParseRiskLevel(t *testing.T) {
	for _, level := range types.AllRiskLevels() {
		parsed, err := types.ParseRiskLevel(level.String())
		gt.NoError(t, err).Required()
		gt.Value(t, parsed).Equal(level)
	}

	_, err := types.ParseRiskLevel("SEVERE")
	gt.Value(t, err).NotNil()
}

func TestSeverity_Rank(t *testing.T) {
	gt.Bool(t, types.SeverityHigh.Rank() > types.SeverityMedium.Rank()).True()
	gt.Number(t, types.Severity("unknown").Rank()).Equal(0)
}
