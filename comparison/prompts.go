package comparison

import "fmt"

const maxPrompts = 3

// ConversationPrompts derives one to three talking points from an item's bucket and flags.
func ConversationPrompts(it CompareItem) []string {
	var prompts []string
	add := func(p string) {
		if len(prompts) < maxPrompts {
			prompts = append(prompts, p)
		}
	}

	if it.HasFlag(FlagHardLimitViolation) {
		add("One of you has marked this as a hard limit. It stays off the table; talk about what the limit protects, not how to move it.")
	}

	topic := it.Label
	if topic == "" {
		topic = "this"
	}
	switch effectiveBucket(it) {
	case BucketMismatch:
		add(fmt.Sprintf("You answered differently on %q. Each of you can say what a no here means for you, without having to justify it.", topic))
	case BucketTalkFirst:
		add(fmt.Sprintf("What would need to be true for %q to feel good for both of you?", topic))
		if hasConditions(it.A) || hasConditions(it.B) {
			add("Go through the conditions you each wrote down and agree on which ones are must-haves.")
		}
	case BucketExplore:
		add(fmt.Sprintf("What draws you to %q, and what makes you hesitate?", topic))
	case BucketDoableNow:
		add(fmt.Sprintf("You are both in on %q. How would you like to start, and how will you check in with each other?", topic))
	}

	if it.HasFlag(FlagHighRisk) {
		add("This is a higher-risk activity: agree on safety measures and a clear stop signal before trying it.")
	}
	if it.HasFlag(FlagLowComfortHighInterest) {
		add("One of you is curious but not yet comfortable. What would a small, low-pressure first step look like?")
	}
	if it.HasFlag(FlagBigDelta) {
		add("Your ratings are far apart. Compare what each number means to you before deciding anything.")
	}
	if it.HasFlag(FlagScenario) && it.PairStatus != PairMatch {
		add("You pictured this scenario differently. Describe the version you had in mind.")
	}

	if len(prompts) == 0 {
		add(fmt.Sprintf("Share one thought each about %q.", topic))
	}
	return prompts
}
