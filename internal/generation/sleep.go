package generation

import (
	"time"

	"healthassistant/internal/health"
)

// SleepValidator checks a sleep answer against the message time ts. On top of
// the field checks it resolves the night and bounds its length, so equal or
// swapped clock times are sent back for repair instead of becoming a 24-hour
// session.
func (c *Contracts) SleepValidator(ts time.Time) Validator[SleepOutput] {
	return func(o *SleepOutput) error {
		if err := c.ValidateSleep(o); err != nil {
			return err
		}
		in, err := o.Resolve(ts)
		if err != nil {
			return err
		}
		return c.ranges.SleepDurationMin.check("night from sleep_start to wake_time (minutes)", in.End.Sub(in.Start).Minutes())
	}
}

// Resolve anchors the reported clock times: wake is the latest matching time
// at or before ts, bed time is before wake, and caffeine times are before bed
// time.
func (o *SleepOutput) Resolve(ts time.Time) (health.SleepInput, error) {
	end, err := health.ResolveClockBefore(ts, o.WakeTime)
	if err != nil {
		return health.SleepInput{}, err
	}
	start, err := health.ResolveClockBefore(end.Add(-time.Minute), o.SleepStart)
	if err != nil {
		return health.SleepInput{}, err
	}
	in := health.SleepInput{
		Start:   start,
		End:     end,
		Snoring: o.SnoringReported,
		Alcohol: o.AlcoholReported,
	}
	if o.LatencyMin != nil {
		in.LatencyMin = *o.LatencyMin
	}
	if o.WasoMin != nil {
		in.WasoMin = *o.WasoMin
	}
	if o.CaffeineReported != nil {
		in.CaffeineReported = *o.CaffeineReported
	}
	for _, c := range o.CaffeineTimes {
		at, err := health.ResolveClockBefore(start, c)
		if err != nil {
			return health.SleepInput{}, err
		}
		in.CaffeineTimes = append(in.CaffeineTimes, at)
	}
	return in, nil
}
