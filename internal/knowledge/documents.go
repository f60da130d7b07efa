package knowledge

// SchemaID identifies the document layout this package understands.
const SchemaID = "healthassistant.knowledge/v1"

type Category string

const (
	CategorySleep   Category = "sleep"
	CategoryDiet    Category = "diet"
	CategoryChronic Category = "chronic"
)

var Categories = []Category{CategorySleep, CategoryDiet, CategoryChronic}

type Header struct {
	Schema   string   `json:"schema"`
	Category Category `json:"category"`
	Version  string   `json:"version"`
	Source   string   `json:"source,omitempty"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Band is one row of a grading table. A band applies from its lower bound
// (inclusive) up to the next band's lower bound. The first band of a table
// has no lower bound. Blood-pressure bands use the per-axis bounds instead of Min.
type Band struct {
	Grade        string       `json:"grade"`
	Label        string       `json:"label"`
	Min          *float64     `json:"min,omitempty"`
	MinSystolic  *float64     `json:"min_systolic,omitempty"`
	MinDiastolic *float64     `json:"min_diastolic,omitempty"`
	Severity     int          `json:"severity"`
	Emoji        string       `json:"emoji"`
	Advice       string       `json:"advice"`
	DASH         *DASHAdvice  `json:"dash,omitempty"`
	ActionPlans  *ActionPlans `json:"action_plans,omitempty"`
}

// Normal reports whether the band carries no risk.
func (b Band) Normal() bool {
	return b.Severity == 0
}

type DASHAdvice struct {
	Sodium     string `json:"sodium"`
	FoodsEat   string `json:"foods_eat"`
	FoodsAvoid string `json:"foods_avoid"`
	SampleMenu string `json:"sample_menu"`
}

type ActionPlans struct {
	Immediate string `json:"immediate"`
	Weekly    string `json:"weekly"`
	Monthly   string `json:"monthly"`
}

type AgeBracket struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	MinAge   int     `json:"min_age"`
	MinHours float64 `json:"min_hours"`
	MaxHours float64 `json:"max_hours"`
	Default  bool    `json:"default,omitempty"`
}

type StageReference struct {
	N3Pct   Range  `json:"n3_pct"`
	REMPct  Range  `json:"rem_pct"`
	N3Hint  string `json:"n3_hint"`
	REMHint string `json:"rem_hint"`
}

// CycleModel lists the expected N3 and REM minutes of each successive sleep
// cycle. Cycles past the end of a list reuse its last value.
type CycleModel struct {
	CycleMinutes float64   `json:"cycle_minutes"`
	N3Minutes    []float64 `json:"n3_minutes"`
	REMMinutes   []float64 `json:"rem_minutes"`
}

type ScorePenalties struct {
	Duration int `json:"duration"`
	N3       int `json:"n3"`
	REM      int `json:"rem"`
	Caffeine int `json:"caffeine"`
	Snoring  int `json:"snoring"`
	Alcohol  int `json:"alcohol"`
	Latency  int `json:"latency"`
	Waso     int `json:"waso"`
}

type SleepDocument struct {
	Header
	AgeBrackets         []AgeBracket      `json:"age_brackets"`
	StageReference      StageReference    `json:"stage_reference"`
	CycleModel          CycleModel        `json:"cycle_model"`
	CaffeineWindowHours float64           `json:"caffeine_window_hours"`
	LatencyMaxMin       float64           `json:"latency_max_min"`
	WasoMaxMin          float64           `json:"waso_max_min"`
	ScorePenalties      ScorePenalties    `json:"score_penalties"`
	QualityBands        []Band            `json:"quality_bands"`
	Advice              map[string]string `json:"advice"`
}

type MacroTargets struct {
	CarbsPct   Range `json:"carbs_pct"`
	ProteinPct Range `json:"protein_pct"`
	FatPct     Range `json:"fat_pct"`
}

type FoodCategoryRef struct {
	Key           string   `json:"key"`
	Label         string   `json:"label"`
	DailyServings string   `json:"daily_servings"`
	Examples      []string `json:"examples"`
}

type CommonItem struct {
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases"`
	Kcal     float64  `json:"kcal"`
	Category string   `json:"category"`
}

type DietDocument struct {
	Header
	MacroTargets   MacroTargets      `json:"macro_targets"`
	SodiumLimitMG  float64           `json:"sodium_limit_mg"`
	FoodCategories []FoodCategoryRef `json:"food_categories"`
	CommonItems    []CommonItem      `json:"common_items"`
	Advice         map[string]string `json:"advice"`
}

type ChronicDocument struct {
	Header
	BloodPressure       []Band `json:"blood_pressure"`
	GlucoseFasting      []Band `json:"glucose_fasting"`
	GlucosePostprandial []Band `json:"glucose_postprandial"`
	BMI                 []Band `json:"bmi"`
	HealthyPlan         string `json:"healthy_plan"`
	FallbackAdvice      string `json:"fallback_advice"`
	MetabolicAlert      string `json:"metabolic_alert"`
}
