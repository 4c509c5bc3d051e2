package comparison

import "strings"

var (
	wantsRiskTypes = map[string]bool{
		"active":         true,
		"explore":        true,
		"masochism":      true,
		"submission":     true,
		"fantasy_active": true,
	}
	stopRiskTypes = map[string]bool{
		"boundary": true,
		"safety":   true,
		"no":       true,
	}
)

// ScenarioKey is the response-map key a scenario answer is stored under.
func ScenarioKey(scenarioID string) string {
	return ScenarioKeyPrefix + scenarioID
}

// CompareScenario compares both choices for a scenario. It returns false when neither side answered.
func CompareScenario(s Scenario, a, b Answer) (CompareItem, bool) {
	choiceA, okA := scenarioChoice(a)
	choiceB, okB := scenarioChoice(b)
	if !okA && !okB {
		return CompareItem{}, false
	}

	status := PairExplore
	if okA && okB {
		if choiceA == choiceB {
			status = PairMatch
		} else if riskTypeConflict(riskType(a), riskType(b)) {
			status = PairBoundary
		}
	}

	tags := []string{}
	if s.Category != "" {
		tags = append(tags, s.Category)
	}
	item := CompareItem{
		QuestionID: s.ID,
		ModuleID:   ScenarioModuleID,
		ModuleName: ScenarioModuleName,
		Label:      s.Title,
		Help:       s.Description,
		Schema:     SchemaScenario,
		RiskLevel:  RiskMedium,
		Tags:       tags,
		A:          copyAnswer(a),
		B:          copyAnswer(b),
		PairStatus: status,
		Bucket:     bucketFromPair(status),
		Flags:      []Flag{FlagScenario},
	}
	item.ConversationPrompts = ConversationPrompts(item)
	return item, true
}

// scenarioChoice reads the choice with its JSON type kept, so 2 and "2" differ.
func scenarioChoice(a Answer) (any, bool) {
	v, ok := scalarField(a, "choice")
	if !ok {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func riskType(a Answer) string {
	s, _ := a["risk_type"].(string)
	return strings.ToLower(strings.TrimSpace(s))
}

func riskTypeConflict(a, b string) bool {
	return (wantsRiskTypes[a] && stopRiskTypes[b]) || (wantsRiskTypes[b] && stopRiskTypes[a])
}

func copyAnswer(a Answer) Answer {
	out := make(Answer, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
