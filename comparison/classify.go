package comparison

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ConsentVariant is the structural shape of a consent_rating answer pair.
type ConsentVariant string

const (
	VariantPlain         ConsentVariant = "plain"
	VariantDomSub        ConsentVariant = "dom_sub"
	VariantActivePassive ConsentVariant = "active_passive"
)

var variantRoles = map[ConsentVariant][2]string{
	VariantDomSub:        {"dom", "sub"},
	VariantActivePassive: {"active", "passive"},
}

const (
	highInterest   = 3
	lowComfort     = 2
	comfortableAt  = 3
	bigDeltaRating = 3
	bigDeltaScale  = 4
	scaleMatchGap  = 1
)

// StatusPair combines two consent statuses. Blank means unanswered.
func StatusPair(a, b Status) PairStatus {
	if isDecline(a) || isDecline(b) {
		return PairBoundary
	}
	if a == StatusYes && b == StatusYes {
		return PairMatch
	}
	return PairExplore
}

func isDecline(s Status) bool {
	return s == StatusNo || s == StatusHardLimit
}

// Classify compares both answers to a question. Missing answers are treated as empty.
func Classify(m Module, q Question, a, b Answer) CompareItem {
	na, nb := Normalize(a), Normalize(b)
	item := CompareItem{
		QuestionID: q.ID,
		ModuleID:   m.ID,
		ModuleName: m.Name,
		Label:      q.Label,
		Help:       q.Help,
		Schema:     q.Schema,
		RiskLevel:  q.RiskLevel,
		Tags:       append([]string{}, q.Tags...),
		A:          na,
		B:          nb,
	}

	o := parsePair(q.Schema, na, nb).compare(q.RiskLevel)
	if q.RiskLevel == RiskHigh {
		o.flags = append(o.flags, FlagHighRisk)
	}
	o.apply(&item)
	item.ConversationPrompts = ConversationPrompts(item)
	return item
}

// outcome is what a schema comparison contributes to an item.
type outcome struct {
	pairStatus    PairStatus
	bucket        Bucket
	deltaInterest *int
	deltaComfort  *int
	deltaValue    *int
	matchValue    *bool
	intersection  []string
	flags         []Flag
	plan          planSignals
}

func (o outcome) apply(item *CompareItem) {
	item.PairStatus = o.pairStatus
	item.Bucket = o.bucket
	item.DeltaInterest = o.deltaInterest
	item.DeltaComfort = o.deltaComfort
	item.DeltaValue = o.deltaValue
	item.MatchValue = o.matchValue
	item.Intersection = o.intersection
	item.Flags = append([]Flag{}, o.flags...)
	item.plan = o.plan
}

// bucketFromPair is the bucket rule for everything but plain consent answers.
func bucketFromPair(ps PairStatus) Bucket {
	switch ps {
	case PairMatch:
		return BucketDoableNow
	case PairBoundary:
		return BucketMismatch
	default:
		return BucketExplore
	}
}

// pairComparison is implemented by each answer shape below; parsePair picks exactly one.
type pairComparison interface {
	compare(risk RiskLevel) outcome
}

func parsePair(schema Schema, a, b Answer) pairComparison {
	switch schema {
	case SchemaConsentRating:
		variant := detectVariant(a, b)
		if variant == VariantPlain {
			return consentPlainPair{
				a:           readRole(a, ""),
				b:           readRole(b, ""),
				conditionsA: hasConditions(a),
				conditionsB: hasConditions(b),
			}
		}
		roles := variantRoles[variant]
		return consentRolePair{
			topA: readRole(a, ""),
			topB: readRole(b, ""),
			a:    [2]consentRole{readRole(a, roles[0]), readRole(a, roles[1])},
			b:    [2]consentRole{readRole(b, roles[0]), readRole(b, roles[1])},
		}
	case SchemaScale:
		return scalePair{a: floatField(a, "value"), b: floatField(b, "value")}
	case SchemaEnum:
		p := enumPair{}
		p.a, p.aOK = scalarField(a, "value")
		p.b, p.bOK = scalarField(b, "value")
		return p
	case SchemaMulti:
		return multiPair{a: stringList(a, "values"), b: stringList(b, "values")}
	case SchemaText:
		return textPair{}
	default:
		return unknownPair{}
	}
}

// detectVariant looks at both sides once: dom/sub wins over active/passive, plain is the fallback.
func detectVariant(a, b Answer) ConsentVariant {
	switch {
	case hasAnyKey(a, "dom_status", "sub_status") || hasAnyKey(b, "dom_status", "sub_status"):
		return VariantDomSub
	case hasAnyKey(a, "active_status", "passive_status") || hasAnyKey(b, "active_status", "passive_status"):
		return VariantActivePassive
	default:
		return VariantPlain
	}
}

func hasAnyKey(a Answer, keys ...string) bool {
	for _, k := range keys {
		if _, ok := a[k]; ok {
			return true
		}
	}
	return false
}

func hasConditions(a Answer) bool {
	switch v := a["conditions"].(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return false
	}
}

type consentRole struct {
	status   Status
	answered bool
	interest *int
	comfort  *int
}

// readRole reads status/interest/comfort, prefixed with "<role>_" for variant answers.
// A side that answered in plain form applies its top-level answer to every role.
func readRole(a Answer, role string) consentRole {
	r := readRoleFields(a, role)
	if role != "" && !r.answered {
		if top := readRoleFields(a, ""); top.answered {
			return top
		}
	}
	return r
}

func readRoleFields(a Answer, role string) consentRole {
	key := func(field string) string {
		if role == "" {
			return field
		}
		return role + "_" + field
	}
	st, ok := statusOf(a, key("status"))
	return consentRole{
		status:   st,
		answered: ok,
		interest: intField(a, key("interest")),
		comfort:  intField(a, key("comfort")),
	}
}

func (r consentRole) lowComfortHighInterest() bool {
	return r.interest != nil && r.comfort != nil && *r.interest >= highInterest && *r.comfort <= lowComfort
}

// statusOrMaybe keeps unanswered sub-roles from reading as a boundary or a match.
func (r consentRole) statusOrMaybe() Status {
	if !r.answered {
		return StatusMaybe
	}
	return r.status
}

func hardLimitViolation(a, b Status) bool {
	agrees := func(s Status) bool { return s == StatusYes || s == StatusMaybe }
	return (a == StatusHardLimit && agrees(b)) || (b == StatusHardLimit && agrees(a))
}

func bigDelta(deltaInterest, deltaComfort *int) bool {
	return (deltaInterest != nil && *deltaInterest >= bigDeltaRating) ||
		(deltaComfort != nil && *deltaComfort >= bigDeltaRating)
}

func atLeast(v *int, min int) bool {
	return v != nil && *v >= min
}

type consentPlainPair struct {
	a, b                     consentRole
	conditionsA, conditionsB bool
}

func (p consentPlainPair) compare(risk RiskLevel) outcome {
	o := outcome{
		pairStatus:    StatusPair(p.a.status, p.b.status),
		deltaInterest: absDiff(p.a.interest, p.b.interest),
		deltaComfort:  absDiff(p.a.comfort, p.b.comfort),
		plan: planSignals{
			interestA: p.a.interest, interestB: p.b.interest,
			comfortA: p.a.comfort, comfortB: p.b.comfort,
		},
	}
	lchi := p.a.lowComfortHighInterest() || p.b.lowComfortHighInterest()
	if hardLimitViolation(p.a.status, p.b.status) {
		o.flags = append(o.flags, FlagHardLimitViolation)
	}
	if lchi {
		o.flags = append(o.flags, FlagLowComfortHighInterest)
	}
	if bigDelta(o.deltaInterest, o.deltaComfort) {
		o.flags = append(o.flags, FlagBigDelta)
	}
	o.bucket = p.bucket(risk, lchi)
	return o
}

// bucket applies the plain consent rules in order; the first rule that matches wins.
func (p consentPlainPair) bucket(risk RiskLevel, lchi bool) Bucket {
	a, b := p.a.status, p.b.status
	if isDecline(a) || isDecline(b) {
		return BucketMismatch
	}
	if a == StatusYes && b == StatusYes {
		if atLeast(p.a.comfort, comfortableAt) && atLeast(p.b.comfort, comfortableAt) &&
			(risk == RiskLow || risk == RiskMedium) {
			return BucketDoableNow
		}
		return BucketExplore
	}
	if a == StatusMaybe || b == StatusMaybe {
		switch {
		case risk == RiskHigh:
			return BucketTalkFirst
		case p.conditionsA || p.conditionsB:
			return BucketTalkFirst
		case lchi:
			return BucketExplore
		default:
			return BucketTalkFirst
		}
	}
	return BucketExplore
}

type consentRolePair struct {
	topA, topB consentRole
	a, b       [2]consentRole
}

func (p consentRolePair) compare(_ RiskLevel) outcome {
	var statuses [2]PairStatus
	var deltaI, deltaC [2]*int
	var hardLimit, lchi bool
	for i := range statuses {
		ra, rb := p.a[i], p.b[i]
		statuses[i] = StatusPair(ra.statusOrMaybe(), rb.statusOrMaybe())
		deltaI[i] = absDiff(ra.interest, rb.interest)
		deltaC[i] = absDiff(ra.comfort, rb.comfort)
		hardLimit = hardLimit || hardLimitViolation(ra.status, rb.status)
		lchi = lchi || ra.lowComfortHighInterest() || rb.lowComfortHighInterest()
	}

	o := outcome{
		pairStatus:    combineRoles(statuses),
		deltaInterest: maxDelta(deltaI),
		deltaComfort:  maxDelta(deltaC),
		plan: planSignals{
			interestA: sideInterest(p.topA, p.a), interestB: sideInterest(p.topB, p.b),
			comfortA: sideComfort(p.topA, p.a), comfortB: sideComfort(p.topB, p.b),
		},
	}
	if hardLimit {
		o.flags = append(o.flags, FlagHardLimitViolation)
	}
	if lchi {
		o.flags = append(o.flags, FlagLowComfortHighInterest)
	}
	if bigDelta(o.deltaInterest, o.deltaComfort) {
		o.flags = append(o.flags, FlagBigDelta)
	}
	o.bucket = bucketFromPair(o.pairStatus)
	return o
}

func combineRoles(s [2]PairStatus) PairStatus {
	switch {
	case s[0] == PairBoundary || s[1] == PairBoundary:
		return PairBoundary
	case s[0] == PairMatch && s[1] == PairMatch:
		return PairMatch
	case s[0] == PairExplore || s[1] == PairExplore:
		return PairExplore
	default:
		panic(fmt.Sprintf("comparison: unexpected sub-role statuses %v", s))
	}
}

// maxDelta counts a missing delta as 0; nil only when neither role has one.
func maxDelta(d [2]*int) *int {
	if d[0] == nil && d[1] == nil {
		return nil
	}
	m := 0
	for _, x := range d {
		if x != nil && *x > m {
			m = *x
		}
	}
	return &m
}

func sideComfort(top consentRole, roles [2]consentRole) *int {
	if top.comfort != nil {
		return top.comfort
	}
	var out *int
	for _, r := range roles {
		if r.comfort != nil && (out == nil || *r.comfort < *out) {
			out = r.comfort
		}
	}
	return out
}

func sideInterest(top consentRole, roles [2]consentRole) *int {
	if top.interest != nil {
		return top.interest
	}
	var out *int
	for _, r := range roles {
		if r.interest != nil && (out == nil || *r.interest > *out) {
			out = r.interest
		}
	}
	return out
}

type scalePair struct {
	a, b *float64
}

// compare judges the exact gap; delta_value is only rounded for output.
func (p scalePair) compare(_ RiskLevel) outcome {
	o := outcome{pairStatus: PairExplore}
	if p.a != nil && p.b != nil {
		gap := math.Abs(*p.a - *p.b)
		rounded := int(math.Round(gap))
		o.deltaValue = &rounded
		if gap <= scaleMatchGap {
			o.pairStatus = PairMatch
		}
		if gap >= bigDeltaScale {
			o.flags = append(o.flags, FlagBigDelta)
		}
	}
	o.bucket = bucketFromPair(o.pairStatus)
	return o
}

type enumPair struct {
	a, b     any
	aOK, bOK bool
}

func (p enumPair) compare(_ RiskLevel) outcome {
	match := p.aOK && p.bOK && p.a == p.b
	o := outcome{pairStatus: PairExplore, matchValue: &match}
	if match {
		o.pairStatus = PairMatch
	}
	o.bucket = bucketFromPair(o.pairStatus)
	return o
}

type multiPair struct {
	a, b []string
}

func (p multiPair) compare(_ RiskLevel) outcome {
	inB := make(map[string]bool, len(p.b))
	for _, v := range p.b {
		inB[v] = true
	}
	seen := make(map[string]bool)
	common := []string{}
	for _, v := range p.a {
		if inB[v] && !seen[v] {
			seen[v] = true
			common = append(common, v)
		}
	}
	sort.Strings(common)

	o := outcome{pairStatus: PairExplore, intersection: common}
	if len(common) > 0 {
		o.pairStatus = PairMatch
	}
	o.bucket = bucketFromPair(o.pairStatus)
	return o
}

// textPair is never matched automatically.
type textPair struct{}

func (textPair) compare(_ RiskLevel) outcome {
	return outcome{pairStatus: PairExplore, bucket: BucketExplore}
}

type unknownPair struct{}

func (unknownPair) compare(_ RiskLevel) outcome {
	return outcome{pairStatus: PairExplore, bucket: BucketExplore}
}
