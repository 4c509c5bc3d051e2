package comparison

import "sort"

var bucketPriority = map[Bucket]int{
	BucketMismatch:  0,
	BucketTalkFirst: 1,
	BucketExplore:   2,
	BucketDoableNow: 3,
}

const unknownBucketPriority = 4

// effectiveBucket falls back to the pair status when an item carries no bucket.
func effectiveBucket(it CompareItem) Bucket {
	if it.Bucket != "" {
		return it.Bucket
	}
	return bucketFromPair(it.PairStatus)
}

func priorityOf(it CompareItem) int {
	if p, ok := bucketPriority[effectiveBucket(it)]; ok {
		return p
	}
	return unknownBucketPriority
}

// SortItems returns the items ordered by bucket, high risk first, module name, question id.
func SortItems(items []CompareItem) []CompareItem {
	out := append([]CompareItem{}, items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if pa, pb := priorityOf(a), priorityOf(b); pa != pb {
			return pa < pb
		}
		if ra, rb := riskRank(a), riskRank(b); ra != rb {
			return ra < rb
		}
		if a.ModuleName != b.ModuleName {
			return a.ModuleName < b.ModuleName
		}
		return a.QuestionID < b.QuestionID
	})
	return out
}

func riskRank(it CompareItem) int {
	if it.RiskLevel == RiskHigh {
		return 0
	}
	return 1
}
