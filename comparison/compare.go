// Package comparison classifies two partners' questionnaire answers against a template and
// derives the report: per-question buckets and flags, summaries and a short action plan.
//
// Everything here is a pure function of its inputs. Nothing is cached, logged or persisted,
// so Compare can be called concurrently for different sessions.
package comparison

// Compare classifies every template question and every answered scenario, sorts the items for
// presentation and derives the summaries and action plan. A template without modules or
// question ids yields an empty report; malformed answers never cause an error.
func Compare(t Template, a, b ResponseMap, scenarios []Scenario) CompareResult {
	items := make([]CompareItem, 0)
	questionCount := 0
	for _, m := range t.Modules {
		for _, q := range m.Questions {
			if q.ID == "" {
				continue
			}
			questionCount++
			items = append(items, Classify(m, q, a[q.ID], b[q.ID]))
		}
	}

	scenarioCount := 0
	for _, s := range scenarios {
		if s.ID == "" {
			continue
		}
		key := ScenarioKey(s.ID)
		if it, ok := CompareScenario(s, a[key], b[key]); ok {
			scenarioCount++
			items = append(items, it)
		}
	}

	items = SortItems(items)
	return CompareResult{
		Meta: Meta{
			TemplateID:      t.ID,
			TemplateName:    t.Name,
			TemplateVersion: t.Version,
			QuestionCount:   questionCount,
			ScenarioCount:   scenarioCount,
			ItemCount:       len(items),
		},
		Summary:           Summarize(items),
		Items:             items,
		ActionPlan:        ActionPlan(items),
		CategorySummaries: SummarizeCategories(t, items),
	}
}
