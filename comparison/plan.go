package comparison

import (
	"sort"
	"strings"
)

// ActionPlanSize caps the suggested plan.
const ActionPlanSize = 3

type planCategory struct {
	name string
	tags map[string]bool
}

var planCategories = []planCategory{
	{name: "soft", tags: map[string]bool{"kissing": true, "touching": true, "cuddling": true}},
	{name: "toy", tags: map[string]bool{"toy": true, "vibrator": true, "plug": true}},
	{name: "kink", tags: map[string]bool{"bdsm": true, "roleplay": true, "fetish": true}},
	{name: "intense", tags: map[string]bool{"impact": true, "breath": true, "edge": true}},
}

var riskBonus = map[RiskLevel]int{
	RiskLow:    2,
	RiskMedium: 1,
}

type planCandidate struct {
	item  CompareItem
	score int
}

// ActionPlan picks up to ActionPlanSize mutually comfortable consent items, spreading the picks
// across tag categories first and modules second. Ties keep the order of items.
func ActionPlan(items []CompareItem) []CompareItem {
	var cands []planCandidate
	for _, it := range items {
		if it.Bucket != BucketDoableNow || it.Schema != SchemaConsentRating {
			continue
		}
		if !atLeast(it.plan.comfortA, comfortableAt) || !atLeast(it.plan.comfortB, comfortableAt) {
			continue
		}
		cands = append(cands, planCandidate{item: it, score: planScore(it)})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})

	plan := make([]CompareItem, 0, ActionPlanSize)
	picked := make([]bool, len(cands))
	take := func(i int) {
		picked[i] = true
		plan = append(plan, cands[i].item)
	}

	usedCategories := make(map[string]bool)
	for i, c := range cands {
		if len(plan) == ActionPlanSize {
			break
		}
		if cat := firstFreeCategory(c.item.Tags, usedCategories); cat != "" {
			usedCategories[cat] = true
			take(i)
		}
	}

	usedModules := make(map[string]bool)
	for _, it := range plan {
		usedModules[it.ModuleID] = true
	}
	for i, c := range cands {
		if len(plan) == ActionPlanSize {
			break
		}
		if picked[i] || usedModules[c.item.ModuleID] {
			continue
		}
		usedModules[c.item.ModuleID] = true
		take(i)
	}

	for i := range cands {
		if len(plan) == ActionPlanSize {
			break
		}
		if !picked[i] {
			take(i)
		}
	}
	return plan
}

func planScore(it CompareItem) int {
	score := riskBonus[it.RiskLevel]
	for _, v := range []*int{it.plan.interestA, it.plan.interestB, it.plan.comfortA, it.plan.comfortB} {
		if v != nil {
			score += *v
		}
	}
	return score
}

func firstFreeCategory(tags []string, used map[string]bool) string {
	for _, cat := range planCategories {
		if used[cat.name] {
			continue
		}
		for _, t := range tags {
			if cat.tags[strings.ToLower(strings.TrimSpace(t))] {
				return cat.name
			}
		}
	}
	return ""
}
