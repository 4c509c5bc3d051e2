package comparison

var knownFlags = []Flag{
	FlagLowComfortHighInterest,
	FlagBigDelta,
	FlagHighRisk,
	FlagHardLimitViolation,
	FlagScenario,
}

func emptyBucketCounts() map[Bucket]int {
	counts := make(map[Bucket]int, len(Buckets))
	for _, b := range Buckets {
		counts[b] = 0
	}
	return counts
}

// Summarize folds bucket and flag counts over items.
func Summarize(items []CompareItem) Summary {
	s := Summary{Counts: emptyBucketCounts(), Flags: make(map[Flag]int, len(knownFlags))}
	for _, f := range knownFlags {
		s.Flags[f] = 0
	}
	for _, it := range items {
		s.Counts[effectiveBucket(it)]++
		for _, f := range it.Flags {
			s.Flags[f]++
		}
	}
	return s
}

// SummarizeCategories rolls up bucket counts per template module. Modules without items
// still appear; the scenarios pseudo-module appears only when scenario items exist.
func SummarizeCategories(t Template, items []CompareItem) map[string]CategorySummary {
	out := make(map[string]CategorySummary, len(t.Modules)+1)
	for _, m := range t.Modules {
		if m.ID == "" {
			continue
		}
		if _, ok := out[m.ID]; ok {
			continue
		}
		out[m.ID] = CategorySummary{Name: m.Name, Counts: emptyBucketCounts()}
	}
	for _, it := range items {
		cs, ok := out[it.ModuleID]
		if !ok {
			if it.ModuleID != ScenarioModuleID {
				continue
			}
			cs = CategorySummary{Name: ScenarioModuleName, Counts: emptyBucketCounts()}
		}
		cs.Counts[effectiveBucket(it)]++
		cs.Total++
		out[it.ModuleID] = cs
	}
	return out
}
