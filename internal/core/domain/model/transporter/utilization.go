package transporter

import "freightsim/internal/core/domain/model/kernel"

// Utilization integrates a piecewise constant indicator over simulated time.
// The zero value observes 0 from time 0.
type Utilization struct {
	value float64
	last  float64
	area  float64
}

// Observe records that the indicator changes to value at time at.
func (u *Utilization) Observe(value, at float64) {
	u.area += u.value * (at - u.last)
	u.value = value
	u.last = at
}

// Average returns the time-weighted mean over [0, now]. It is undefined for
// now == 0.
func (u Utilization) Average(now float64) kernel.Ratio {
	if now <= 0 {
		return kernel.Ratio{}
	}
	return kernel.NewRatio(u.area+u.value*(now-u.last), now)
}
