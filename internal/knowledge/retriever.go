package knowledge

import (
	"fmt"
	"strings"

	"healthassistant/internal/models"
)

// Query carries the parsed entities that narrow a retrieval.
type Query struct {
	Age          *int
	ReadingTypes []models.VitalType
}

type SleepSlice struct {
	Bracket             AgeBracket        `json:"age_bracket"`
	StageReference      StageReference    `json:"stage_reference"`
	CycleModel          CycleModel        `json:"cycle_model"`
	CaffeineWindowHours float64           `json:"caffeine_window_hours"`
	LatencyMaxMin       float64           `json:"latency_max_min"`
	WasoMaxMin          float64           `json:"waso_max_min"`
	ScorePenalties      ScorePenalties    `json:"score_penalties"`
	QualityBands        []Band            `json:"quality_bands"`
	Advice              map[string]string `json:"advice"`
}

type DietSlice struct {
	MacroTargets   MacroTargets      `json:"macro_targets"`
	SodiumLimitMG  float64           `json:"sodium_limit_mg"`
	FoodCategories []FoodCategoryRef `json:"food_categories"`
	CommonItems    []CommonItem      `json:"common_items"`
	Advice         map[string]string `json:"advice"`
}

// LookupItem finds a common item by name or alias, ignoring case and
// surrounding whitespace.
func (d *DietSlice) LookupItem(name string) (CommonItem, bool) {
	if d == nil {
		return CommonItem{}, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CommonItem{}, false
	}
	for _, item := range d.CommonItems {
		if strings.ToLower(item.Name) == name {
			return item, true
		}
		for _, alias := range item.Aliases {
			if strings.ToLower(alias) == name {
				return item, true
			}
		}
	}
	return CommonItem{}, false
}

type ChronicSlice struct {
	BloodPressure       []Band `json:"blood_pressure,omitempty"`
	GlucoseFasting      []Band `json:"glucose_fasting,omitempty"`
	GlucosePostprandial []Band `json:"glucose_postprandial,omitempty"`
	BMI                 []Band `json:"bmi,omitempty"`
	HealthyPlan         string `json:"healthy_plan"`
	FallbackAdvice      string `json:"fallback_advice"`
	MetabolicAlert      string `json:"metabolic_alert"`
}

// Slice is the read-only subset of the knowledge base relevant to one turn.
// Exactly one of Sleep, Diet and Chronic is set for a recording intent.
type Slice struct {
	Category Category      `json:"category,omitempty"`
	Version  string        `json:"version,omitempty"`
	Sleep    *SleepSlice   `json:"sleep,omitempty"`
	Diet     *DietSlice    `json:"diet,omitempty"`
	Chronic  *ChronicSlice `json:"chronic,omitempty"`
}

func (s Slice) Empty() bool {
	return s.Sleep == nil && s.Diet == nil && s.Chronic == nil
}

type Retriever struct {
	store *Store
}

func NewRetriever(store *Store) *Retriever {
	return &Retriever{store: store}
}

// Retrieve is a pure lookup. Profile updates and queries get an empty slice.
func (r *Retriever) Retrieve(intent models.Intent, q Query) (Slice, error) {
	switch intent {
	case models.IntentSleep:
		return r.sleepSlice(q)
	case models.IntentDiet:
		return r.dietSlice()
	case models.IntentVitals:
		return r.chronicSlice(q)
	default:
		return Slice{}, nil
	}
}

func (r *Retriever) sleepSlice(q Query) (Slice, error) {
	if r.store == nil || r.store.sleep == nil {
		return Slice{}, fmt.Errorf("%w: category %q", ErrKnowledgeMissing, CategorySleep)
	}
	doc := r.store.sleep
	bracket, err := doc.BracketFor(q.Age)
	if err != nil {
		return Slice{}, err
	}
	return Slice{
		Category: CategorySleep,
		Version:  doc.Version,
		Sleep: &SleepSlice{
			Bracket:             bracket,
			StageReference:      doc.StageReference,
			CycleModel:          doc.CycleModel,
			CaffeineWindowHours: doc.CaffeineWindowHours,
			LatencyMaxMin:       doc.LatencyMaxMin,
			WasoMaxMin:          doc.WasoMaxMin,
			ScorePenalties:      doc.ScorePenalties,
			QualityBands:        doc.QualityBands,
			Advice:              doc.Advice,
		},
	}, nil
}

// BracketFor picks the bracket with the greatest min_age not above age.
// Unknown age selects the default bracket; ages below every bracket select
// the youngest one.
func (d *SleepDocument) BracketFor(age *int) (AgeBracket, error) {
	if len(d.AgeBrackets) == 0 {
		return AgeBracket{}, fmt.Errorf("%w: sleep age_brackets", ErrKnowledgeMissing)
	}
	if age == nil {
		for _, b := range d.AgeBrackets {
			if b.Default {
				return b, nil
			}
		}
		return AgeBracket{}, fmt.Errorf("%w: sleep default bracket", ErrKnowledgeMissing)
	}
	picked := d.AgeBrackets[0]
	for _, b := range d.AgeBrackets {
		if *age >= b.MinAge {
			picked = b
		}
	}
	return picked, nil
}

func (r *Retriever) dietSlice() (Slice, error) {
	if r.store == nil || r.store.diet == nil {
		return Slice{}, fmt.Errorf("%w: category %q", ErrKnowledgeMissing, CategoryDiet)
	}
	doc := r.store.diet
	return Slice{
		Category: CategoryDiet,
		Version:  doc.Version,
		Diet: &DietSlice{
			MacroTargets:   doc.MacroTargets,
			SodiumLimitMG:  doc.SodiumLimitMG,
			FoodCategories: doc.FoodCategories,
			CommonItems:    doc.CommonItems,
			Advice:         doc.Advice,
		},
	}, nil
}

func (r *Retriever) chronicSlice(q Query) (Slice, error) {
	if r.store == nil || r.store.chronic == nil {
		return Slice{}, fmt.Errorf("%w: category %q", ErrKnowledgeMissing, CategoryChronic)
	}
	doc := r.store.chronic
	out := &ChronicSlice{
		HealthyPlan:    doc.HealthyPlan,
		FallbackAdvice: doc.FallbackAdvice,
		MetabolicAlert: doc.MetabolicAlert,
	}

	types := q.ReadingTypes
	if len(types) == 0 {
		types = []models.VitalType{models.VitalBloodPressure, models.VitalGlucose, models.VitalBMI}
	}
	for _, t := range types {
		switch t {
		case models.VitalBloodPressure:
			out.BloodPressure = doc.BloodPressure
		case models.VitalGlucose:
			out.GlucoseFasting = doc.GlucoseFasting
			out.GlucosePostprandial = doc.GlucosePostprandial
		case models.VitalBMI:
			out.BMI = doc.BMI
		default:
			return Slice{}, fmt.Errorf("%w: chronic table for %q", ErrKnowledgeMissing, t)
		}
	}

	return Slice{Category: CategoryChronic, Version: doc.Version, Chronic: out}, nil
}

// FullChronic returns every grading table, used when recomputing stored grades.
func (r *Retriever) FullChronic() (Slice, error) {
	return r.chronicSlice(Query{})
}
