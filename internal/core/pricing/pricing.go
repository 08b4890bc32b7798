package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRates is returned when a rate or monthly count is negative or
// not a finite number
var ErrInvalidRates = errors.New("invalid rates")

// Default rates for the counter. Currency is whatever the facility bills in.
const (
	DefaultCostPerCount    = 0.64
	DefaultCostPerStartup  = 1.28
	DefaultCostPerShutdown = 9.40
	DefaultQCCount         = 12
	DefaultBleachCleans    = 4
)

// Rates holds every cost constant used by the report
type Rates struct {
	CostPerCount    float64 `yaml:"cost_per_count" json:"costPerCount" envconfig:"COUNTER_COST_PER_COUNT"`
	CostPerStartup  float64 `yaml:"cost_per_startup" json:"costPerStartup" envconfig:"COUNTER_COST_PER_STARTUP"`
	CostPerShutdown float64 `yaml:"cost_per_shutdown" json:"costPerShutdown" envconfig:"COUNTER_COST_PER_SHUTDOWN"`

	// QC samples and bleach cleans are not logged by the instrument; they
	// are assumed to run on a weekly schedule and billed at the count rate.
	QCCount      int `yaml:"qc_count" json:"qcCount" envconfig:"COUNTER_QC_COUNT"`
	BleachCleans int `yaml:"bleach_cleans" json:"bleachCleans" envconfig:"COUNTER_BLEACH_CLEANS"`
}

// DefaultRates returns the rates used when nothing is overridden
func DefaultRates() Rates {
	return Rates{
		CostPerCount:    DefaultCostPerCount,
		CostPerStartup:  DefaultCostPerStartup,
		CostPerShutdown: DefaultCostPerShutdown,
		QCCount:         DefaultQCCount,
		BleachCleans:    DefaultBleachCleans,
	}
}

// StartupShutdown is the fixed cost of one day of use
func (r Rates) StartupShutdown() float64 {
	return r.CostPerStartup + r.CostPerShutdown
}

// QCCost is the monthly cost of QC samples before it is split between labs
func (r Rates) QCCost() float64 {
	return float64(r.QCCount) * r.CostPerCount
}

// BleachCost is the monthly cost of bleach cleans before it is split between labs
func (r Rates) BleachCost() float64 {
	return float64(r.BleachCleans) * r.CostPerCount
}

// Validate checks that every rate and count is finite and not negative
func (r Rates) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"cost per count", r.CostPerCount},
		{"cost per startup", r.CostPerStartup},
		{"cost per shutdown", r.CostPerShutdown},
		{"QC count", float64(r.QCCount)},
		{"bleach cleans", float64(r.BleachCleans)},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number (%v)", ErrInvalidRates, c.name, c.value)
		}
		if c.value < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidRates, c.name, c.value)
		}
	}
	return nil
}
