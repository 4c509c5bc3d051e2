package comparison

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTemplate() Template {
	return Template{
		ID:   "tpl",
		Name: "Sample",
		Modules: []Module{
			{ID: "touch", Name: "Touch", Questions: []Question{
				{ID: "Q1", Schema: SchemaConsentRating, RiskLevel: RiskLow, Label: "Kissing", Tags: []string{"kissing"}},
				{ID: "Q2", Schema: SchemaConsentRating, RiskLevel: RiskHigh, Label: "Breath play", Tags: []string{"breath"}},
			}},
			{ID: "prefs", Name: "Preferences", Questions: []Question{
				{ID: "Q3", Schema: SchemaScale, RiskLevel: RiskLow, Label: "Frequency"},
				{ID: "Q4", Schema: SchemaMulti, RiskLevel: RiskLow, Label: "Places"},
				{ID: "Q5", Schema: SchemaText, RiskLevel: RiskLow, Label: "Anything else"},
			}},
			{ID: "empty", Name: "Empty"},
		},
	}
}

func itemByID(t *testing.T, res CompareResult, id string) CompareItem {
	t.Helper()
	for _, it := range res.Items {
		if it.QuestionID == id {
			return it
		}
	}
	require.Failf(t, "item not found", "question %s", id)
	return CompareItem{}
}

func TestCompare_SingleConsentMatch(t *testing.T) {
	tpl := Template{ID: "t", Modules: []Module{{ID: "m", Name: "M", Questions: []Question{
		{ID: "Q1", Schema: SchemaConsentRating, RiskLevel: RiskLow},
	}}}}

	res := Compare(tpl,
		ResponseMap{"Q1": {"status": "YES", "interest": 3, "comfort": 4}},
		ResponseMap{"Q1": {"status": "YES", "interest": 4, "comfort": 3}},
		nil)

	require.Len(t, res.Items, 1)
	it := res.Items[0]
	assert.Equal(t, PairMatch, it.PairStatus)
	assert.Equal(t, BucketDoableNow, it.Bucket)
	assert.Equal(t, 1, *it.DeltaInterest)
	assert.Equal(t, 1, *it.DeltaComfort)
	assert.Empty(t, it.Flags)
	assert.Len(t, res.ActionPlan, 1)
	assert.Equal(t, 1, res.Summary.Counts[BucketDoableNow])
}

func TestCompare_FullReport(t *testing.T) {
	a := ResponseMap{
		"Q1":           {"status": "YES", "interest": 4, "comfort": 4},
		"Q2":           {"status": "HARD_LIMIT"},
		"Q3":           {"value": 2},
		"Q4":           {"values": []any{"Option1", "Option2"}},
		"Q5":           {"text": "secret"},
		"SCENARIO_S01": {"choice": "D", "risk_type": "active"},
	}
	b := ResponseMap{
		"Q1":           {"status": "YES", "interest": 3, "comfort": 4},
		"Q2":           {"status": "YES", "interest": 4, "comfort": 4},
		"Q3":           {"value": 8},
		"Q4":           {"values": []any{"Option1", "Option3"}},
		"SCENARIO_S01": {"choice": "A", "risk_type": "boundary"},
	}
	scenarios := []Scenario{
		{ID: "S01", Title: "Door", Category: "roleplay"},
		{ID: "S02", Title: "Unanswered", Category: "soft"},
	}

	res := Compare(sampleTemplate(), a, b, scenarios)

	require.Len(t, res.Items, 6)
	assert.Equal(t, 5, res.Meta.QuestionCount)
	assert.Equal(t, 1, res.Meta.ScenarioCount)
	assert.Equal(t, 6, res.Meta.ItemCount)

	q2 := itemByID(t, res, "Q2")
	assert.Equal(t, BucketMismatch, q2.Bucket)
	assert.Contains(t, q2.Flags, FlagHardLimitViolation)
	assert.Contains(t, q2.Flags, FlagHighRisk)

	q3 := itemByID(t, res, "Q3")
	assert.Equal(t, 6, *q3.DeltaValue)
	assert.Equal(t, PairExplore, q3.PairStatus)
	assert.Contains(t, q3.Flags, FlagBigDelta)

	q4 := itemByID(t, res, "Q4")
	assert.Equal(t, []string{"Option1"}, q4.Intersection)
	assert.Equal(t, PairMatch, q4.PairStatus)

	s01 := itemByID(t, res, "S01")
	assert.Equal(t, PairBoundary, s01.PairStatus)
	assert.Equal(t, BucketMismatch, s01.Bucket)

	for _, it := range res.Items {
		assert.NotEqual(t, "S02", it.QuestionID)
	}

	// High risk first inside MISMATCH, then module name.
	assert.Equal(t, []string{"Q2", "S01", "Q3", "Q5", "Q4", "Q1"}, ids(res.Items))

	assert.Equal(t, map[Bucket]int{
		BucketMismatch: 2, BucketTalkFirst: 0, BucketExplore: 2, BucketDoableNow: 2,
	}, res.Summary.Counts)
	assert.Equal(t, 1, res.Summary.Flags[FlagHardLimitViolation])
	assert.Equal(t, 1, res.Summary.Flags[FlagScenario])
	assert.Equal(t, 1, res.Summary.Flags[FlagHighRisk])
	assert.Equal(t, 1, res.Summary.Flags[FlagBigDelta])

	assert.Equal(t, []string{"Q1"}, ids(res.ActionPlan))

	require.Contains(t, res.CategorySummaries, "empty")
	assert.Equal(t, 0, res.CategorySummaries["empty"].Total)
	assert.Equal(t, 0, res.CategorySummaries["empty"].Counts[BucketMismatch])
	assert.Equal(t, 2, res.CategorySummaries["touch"].Total)
	assert.Equal(t, 3, res.CategorySummaries["prefs"].Total)
	require.Contains(t, res.CategorySummaries, ScenarioModuleID)
	assert.Equal(t, 1, res.CategorySummaries[ScenarioModuleID].Counts[BucketMismatch])
}

func TestCompare_SortInvariant(t *testing.T) {
	a := ResponseMap{"Q1": {"status": "YES", "comfort": 4}, "Q2": {"status": "MAYBE"}, "Q3": {"value": 1}}
	b := ResponseMap{"Q1": {"status": "YES", "comfort": 4}, "Q2": {"status": "YES"}, "Q3": {"value": 10}}

	res := Compare(sampleTemplate(), a, b, nil)

	for i := 1; i < len(res.Items); i++ {
		assert.LessOrEqual(t, priorityOf(res.Items[i-1]), priorityOf(res.Items[i]))
	}
}

func TestCompare_UnansweredScenarioLeavesCountsAlone(t *testing.T) {
	scenarios := []Scenario{{ID: "S9", Title: "Nobody answered"}}

	with := Compare(sampleTemplate(), nil, nil, scenarios)
	without := Compare(sampleTemplate(), nil, nil, nil)

	assert.Equal(t, without.Summary, with.Summary)
	assert.Len(t, with.Items, len(without.Items))
	assert.NotContains(t, with.CategorySummaries, ScenarioModuleID)
}

func TestCompare_MalformedTemplate(t *testing.T) {
	res := Compare(Template{}, ResponseMap{"Q1": {"status": "YES"}}, nil, nil)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.ActionPlan)
	assert.Empty(t, res.CategorySummaries)

	res = Compare(Template{Modules: []Module{{ID: "m", Questions: []Question{{Schema: SchemaText}}}}}, nil, nil, nil)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Meta.QuestionCount)
}

func TestCompare_DecodedJSONInputs(t *testing.T) {
	var tpl Template
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "json",
		"modules": [{"id": "m", "name": "M", "questions": [
			{"id": "Q1", "schema": "consent_rating", "risk_level": "A", "tags": ["touching"]}
		]}]
	}`), &tpl))
	var a, b ResponseMap
	require.NoError(t, json.Unmarshal([]byte(`{"Q1": {"status": "YES", "interest": 4, "comfort": 3}}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"Q1": {"status": "yes", "interest": "4", "comfort": 4.0}}`), &b))

	res := Compare(tpl, a, b, nil)

	require.Len(t, res.Items, 1)
	assert.Equal(t, BucketDoableNow, res.Items[0].Bucket)
	assert.Equal(t, 0, *res.Items[0].DeltaInterest)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"bucket":"DOABLE NOW"`)
	assert.Contains(t, string(out), `"flags":[]`)
	assert.Contains(t, string(out), `"conversationPrompts":[`)
}

func TestSortItems_FallsBackToPairStatus(t *testing.T) {
	items := []CompareItem{
		{QuestionID: "b", PairStatus: PairMatch},
		{QuestionID: "a", PairStatus: PairBoundary},
		{QuestionID: "c", Bucket: BucketTalkFirst},
	}

	assert.Equal(t, []string{"a", "c", "b"}, ids(SortItems(items)))
	assert.Equal(t, "b", items[0].QuestionID, "input order must be preserved")
}
