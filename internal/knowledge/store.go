package knowledge

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
)

// ErrKnowledgeMissing is returned when a category or table is absent or a
// document declares an incompatible schema.
var ErrKnowledgeMissing = errors.New("knowledge missing")

//go:embed data/*.json
var embedded embed.FS

// Store holds the three reference documents. It is immutable after load and
// safe to share across goroutines.
type Store struct {
	sleep   *SleepDocument
	diet    *DietDocument
	chronic *ChronicDocument
}

// Load reads the documents compiled into the binary.
func Load() (*Store, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded knowledge: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir reads sleep.json, diet.json and chronic.json from dir.
func LoadDir(dir string) (*Store, error) {
	return LoadFS(os.DirFS(dir))
}

func LoadFS(fsys fs.FS) (*Store, error) {
	s := &Store{
		sleep:   &SleepDocument{},
		diet:    &DietDocument{},
		chronic: &ChronicDocument{},
	}
	if err := readDocument(fsys, CategorySleep, s.sleep, &s.sleep.Header); err != nil {
		return nil, err
	}
	if err := readDocument(fsys, CategoryDiet, s.diet, &s.diet.Header); err != nil {
		return nil, err
	}
	if err := readDocument(fsys, CategoryChronic, s.chronic, &s.chronic.Header); err != nil {
		return nil, err
	}

	if err := s.sleep.validate(); err != nil {
		return nil, err
	}
	if err := s.diet.validate(); err != nil {
		return nil, err
	}
	if err := s.chronic.validate(); err != nil {
		return nil, err
	}

	log.Printf("Knowledge loaded: sleep=%s diet=%s chronic=%s", s.sleep.Version, s.diet.Version, s.chronic.Version)
	return s, nil
}

func readDocument(fsys fs.FS, category Category, doc any, header *Header) error {
	name := string(category) + ".json"
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrKnowledgeMissing, name, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrKnowledgeMissing, name, err)
	}

	if header.Schema != SchemaID {
		return fmt.Errorf("%w: %s declares schema %q, want %q", ErrKnowledgeMissing, name, header.Schema, SchemaID)
	}
	if header.Category != category {
		return fmt.Errorf("%w: %s declares category %q", ErrKnowledgeMissing, name, header.Category)
	}
	if strings.TrimSpace(header.Version) == "" {
		return fmt.Errorf("%w: %s has no version", ErrKnowledgeMissing, name)
	}
	return nil
}

func (s *Store) Sleep() *SleepDocument     { return s.sleep }
func (s *Store) Diet() *DietDocument       { return s.diet }
func (s *Store) Chronic() *ChronicDocument { return s.chronic }

// Version returns the version string of a category's document.
func (s *Store) Version(category Category) (string, error) {
	switch {
	case category == CategorySleep && s.sleep != nil:
		return s.sleep.Version, nil
	case category == CategoryDiet && s.diet != nil:
		return s.diet.Version, nil
	case category == CategoryChronic && s.chronic != nil:
		return s.chronic.Version, nil
	}
	return "", fmt.Errorf("%w: category %q", ErrKnowledgeMissing, category)
}

// Document returns the raw document of a category, for read-only display.
func (s *Store) Document(category Category) (any, error) {
	switch {
	case category == CategorySleep && s.sleep != nil:
		return s.sleep, nil
	case category == CategoryDiet && s.diet != nil:
		return s.diet, nil
	case category == CategoryChronic && s.chronic != nil:
		return s.chronic, nil
	}
	return nil, fmt.Errorf("%w: category %q", ErrKnowledgeMissing, category)
}

func (d *SleepDocument) validate() error {
	if len(d.AgeBrackets) == 0 {
		return fmt.Errorf("%w: sleep.json has no age_brackets", ErrKnowledgeMissing)
	}
	defaults := 0
	for i, b := range d.AgeBrackets {
		if b.Default {
			defaults++
		}
		if b.MinHours <= 0 || b.MaxHours < b.MinHours {
			return fmt.Errorf("%w: sleep.json bracket %q has invalid hours", ErrKnowledgeMissing, b.Key)
		}
		if i > 0 && b.MinAge <= d.AgeBrackets[i-1].MinAge {
			return fmt.Errorf("%w: sleep.json age_brackets must be ordered by min_age", ErrKnowledgeMissing)
		}
	}
	if defaults != 1 {
		return fmt.Errorf("%w: sleep.json needs exactly one default bracket", ErrKnowledgeMissing)
	}
	if d.CycleModel.CycleMinutes <= 0 || len(d.CycleModel.N3Minutes) == 0 || len(d.CycleModel.REMMinutes) == 0 {
		return fmt.Errorf("%w: sleep.json has an empty cycle_model", ErrKnowledgeMissing)
	}
	if d.CaffeineWindowHours <= 0 {
		return fmt.Errorf("%w: sleep.json has no caffeine_window_hours", ErrKnowledgeMissing)
	}
	return validateBands("sleep.json quality_bands", d.QualityBands)
}

func (d *DietDocument) validate() error {
	if len(d.FoodCategories) == 0 {
		return fmt.Errorf("%w: diet.json has no food_categories", ErrKnowledgeMissing)
	}
	keys := make(map[string]bool, len(d.FoodCategories))
	for _, c := range d.FoodCategories {
		keys[c.Key] = true
	}
	for _, item := range d.CommonItems {
		if !keys[item.Category] {
			return fmt.Errorf("%w: diet.json common item %q has unknown category %q", ErrKnowledgeMissing, item.Name, item.Category)
		}
	}
	if d.SodiumLimitMG <= 0 {
		return fmt.Errorf("%w: diet.json has no sodium_limit_mg", ErrKnowledgeMissing)
	}
	return nil
}

func (d *ChronicDocument) validate() error {
	if err := validateBPBands(d.BloodPressure); err != nil {
		return err
	}
	if err := validateBands("chronic.json glucose_fasting", d.GlucoseFasting); err != nil {
		return err
	}
	if err := validateBands("chronic.json glucose_postprandial", d.GlucosePostprandial); err != nil {
		return err
	}
	return validateBands("chronic.json bmi", d.BMI)
}

// validateBands checks that a single-axis table is total: an unbounded first
// band followed by strictly ascending lower bounds.
func validateBands(name string, bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrKnowledgeMissing, name)
	}
	if bands[0].Min != nil {
		return fmt.Errorf("%w: %s first band must have no lower bound", ErrKnowledgeMissing, name)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min == nil {
			return fmt.Errorf("%w: %s band %q has no lower bound", ErrKnowledgeMissing, name, bands[i].Grade)
		}
		if i > 1 && *bands[i].Min <= *bands[i-1].Min {
			return fmt.Errorf("%w: %s bands must ascend", ErrKnowledgeMissing, name)
		}
	}
	return nil
}

func validateBPBands(bands []Band) error {
	const name = "chronic.json blood_pressure"
	if len(bands) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrKnowledgeMissing, name)
	}
	if bands[0].MinSystolic != nil || bands[0].MinDiastolic != nil {
		return fmt.Errorf("%w: %s first band must have no lower bound", ErrKnowledgeMissing, name)
	}
	var lastSys, lastDia *float64
	for i := 1; i < len(bands); i++ {
		b := bands[i]
		if b.MinSystolic == nil && b.MinDiastolic == nil {
			return fmt.Errorf("%w: %s band %q has no lower bound", ErrKnowledgeMissing, name, b.Grade)
		}
		if b.MinSystolic != nil {
			if lastSys != nil && *b.MinSystolic <= *lastSys {
				return fmt.Errorf("%w: %s systolic bounds must ascend", ErrKnowledgeMissing, name)
			}
			lastSys = b.MinSystolic
		}
		if b.MinDiastolic != nil {
			if lastDia != nil && *b.MinDiastolic <= *lastDia {
				return fmt.Errorf("%w: %s diastolic bounds must ascend", ErrKnowledgeMissing, name)
			}
			lastDia = b.MinDiastolic
		}
	}
	return nil
}
