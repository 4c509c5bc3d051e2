package comparison

// Schema names the answer shape a question expects.
type Schema string

const (
	SchemaConsentRating Schema = "consent_rating"
	SchemaScale         Schema = "scale_0_10"
	SchemaEnum          Schema = "enum"
	SchemaMulti         Schema = "multi"
	SchemaText          Schema = "text"
	SchemaScenario      Schema = "scenario" // Synthetic, never declared in a template
)

// RiskLevel grades how sensitive a question is. A is low, C is high.
type RiskLevel string

const (
	RiskLow    RiskLevel = "A"
	RiskMedium RiskLevel = "B"
	RiskHigh   RiskLevel = "C"
)

// Status is a consent answer for one side (or one sub-role).
type Status string

const (
	StatusYes       Status = "YES"
	StatusMaybe     Status = "MAYBE"
	StatusNo        Status = "NO"
	StatusHardLimit Status = "HARD_LIMIT"
)

// PairStatus is the coarse classification of two answers.
type PairStatus string

const (
	PairMatch    PairStatus = "MATCH"
	PairExplore  PairStatus = "EXPLORE"
	PairBoundary PairStatus = "BOUNDARY"
)

// Bucket is the presentation classification used for sorting, summaries and the action plan.
type Bucket string

const (
	BucketDoableNow Bucket = "DOABLE NOW"
	BucketExplore   Bucket = "EXPLORE"
	BucketTalkFirst Bucket = "TALK FIRST"
	BucketMismatch  Bucket = "MISMATCH"
)

// Buckets lists every bucket in presentation order.
var Buckets = []Bucket{BucketMismatch, BucketTalkFirst, BucketExplore, BucketDoableNow}

// Flag marks a risk condition on a compared item.
type Flag string

const (
	FlagLowComfortHighInterest Flag = "low_comfort_high_interest"
	FlagBigDelta               Flag = "big_delta"
	FlagHighRisk               Flag = "high_risk"
	FlagHardLimitViolation     Flag = "hard_limit_violation"
	FlagScenario               Flag = "scenario"
)

// ScenarioModuleID is the pseudo-module that collects scenario items.
const (
	ScenarioModuleID   = "scenarios"
	ScenarioModuleName = "Scenarios"
	ScenarioKeyPrefix  = "SCENARIO_"
)

// Template is an ordered questionnaire.
type Template struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Version string   `json:"version,omitempty" yaml:"version,omitempty"`
	Modules []Module `json:"modules" yaml:"modules"`
}

// Module groups questions under a display name.
type Module struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Question is one template entry. IDs are expected to be unique across the template.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Schema    Schema    `json:"schema" yaml:"schema"`
	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`
	Label     string    `json:"label" yaml:"label"`
	Help      string    `json:"help,omitempty" yaml:"help,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Options   []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Scenario is a narrative choice item supplied outside the template.
type Scenario struct {
	ID          string           `json:"id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	Category    string           `json:"category" yaml:"category"`
	Description string           `json:"description" yaml:"description"`
	Options     []ScenarioOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// ScenarioOption is a selectable choice of a scenario.
type ScenarioOption struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	RiskType string `json:"risk_type" yaml:"risk_type"`
}

// Answer is a loosely typed answer mapping as decoded from JSON.
type Answer map[string]any

// ResponseMap maps question ids (and SCENARIO_<id> keys) to answers.
type ResponseMap map[string]Answer

// CompareItem is one classified question or scenario.
type CompareItem struct {
	QuestionID string    `json:"question_id"`
	ModuleID   string    `json:"module_id"`
	ModuleName string    `json:"module_name"`
	Label      string    `json:"label"`
	Help       string    `json:"help,omitempty"`
	Schema     Schema    `json:"schema"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Tags       []string  `json:"tags"`

	A Answer `json:"a"`
	B Answer `json:"b"`

	PairStatus    PairStatus `json:"pair_status"`
	DeltaInterest *int       `json:"delta_interest,omitempty"`
	DeltaComfort  *int       `json:"delta_comfort,omitempty"`
	DeltaValue    *int       `json:"delta_value,omitempty"`
	MatchValue    *bool      `json:"match_value,omitempty"`
	Intersection  []string   `json:"intersection,omitempty"`

	Bucket              Bucket   `json:"bucket"`
	Flags               []Flag   `json:"flags"`
	ConversationPrompts []string `json:"conversationPrompts"`

	plan planSignals
}

// HasFlag reports whether f is set on the item.
func (it CompareItem) HasFlag(f Flag) bool {
	for _, x := range it.Flags {
		if x == f {
			return true
		}
	}
	return false
}

// planSignals carries the per-side interest/comfort the action plan scores on.
type planSignals struct {
	interestA, interestB *int
	comfortA, comfortB   *int
}

// Meta describes the inputs a result was computed from.
type Meta struct {
	TemplateID      string `json:"template_id"`
	TemplateName    string `json:"template_name"`
	TemplateVersion string `json:"template_version,omitempty"`
	QuestionCount   int    `json:"question_count"`
	ScenarioCount   int    `json:"scenario_count"`
	ItemCount       int    `json:"item_count"`
}

// Summary holds the bucket and flag roll-ups across all items.
type Summary struct {
	Counts map[Bucket]int `json:"counts"`
	Flags  map[Flag]int   `json:"flags"`
}

// CategorySummary is the per-module bucket roll-up.
type CategorySummary struct {
	Name   string         `json:"name"`
	Counts map[Bucket]int `json:"counts"`
	Total  int            `json:"total"`
}

// CompareResult is the full comparison report.
type CompareResult struct {
	Meta              Meta                       `json:"meta"`
	Summary           Summary                    `json:"summary"`
	Items             []CompareItem              `json:"items"`
	ActionPlan        []CompareItem              `json:"action_plan"`
	CategorySummaries map[string]CategorySummary `json:"categorySummaries"`
}
