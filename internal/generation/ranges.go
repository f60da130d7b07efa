package generation

import "fmt"

// Range is an inclusive plausibility bound for a model-produced number.
type Range struct {
	Min float64
	Max float64
}

func (r Range) check(field string, v float64) error {
	if v < r.Min || v > r.Max {
		return fmt.Errorf("%s %v outside plausible range [%v, %v]", field, v, r.Min, r.Max)
	}
	return nil
}

// Ranges bounds every numeric field of every contract.
type Ranges struct {
	Kcal             Range
	MacroG           Range
	SodiumMG         Range
	LatencyMin       Range
	WasoMin          Range
	SleepDurationMin Range
	Systolic         Range
	Diastolic        Range
	Glucose          Range
	WeightKG         Range
	HeightCM         Range
	Age              Range
	GoalOffset       Range
}

func DefaultRanges() Ranges {
	return Ranges{
		Kcal:             Range{Min: 0, Max: 5000},
		MacroG:           Range{Min: 0, Max: 500},
		SodiumMG:         Range{Min: 0, Max: 10000},
		LatencyMin:       Range{Min: 0, Max: 240},
		WasoMin:          Range{Min: 0, Max: 480},
		SleepDurationMin: Range{Min: 30, Max: 960},
		Systolic:         Range{Min: 50, Max: 300},
		Diastolic:        Range{Min: 30, Max: 200},
		Glucose:          Range{Min: 20, Max: 600},
		WeightKG:         Range{Min: 20, Max: 300},
		HeightCM:         Range{Min: 80, Max: 250},
		Age:              Range{Min: 1, Max: 120},
		GoalOffset:       Range{Min: -1500, Max: 1500},
	}
}
