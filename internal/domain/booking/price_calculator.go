package booking

import (
	"time"

	"car-rental-api/internal/pkg/money"
)

const day = 24 * time.Hour

// Quote is the undiscounted price of a rental.
type Quote struct {
	DurationDays int
	DailyRate    money.Money
	BasePrice    money.Money
}

type PriceCalculator interface {
	Quote(start, end time.Time, dailyRate money.Money) Quote
}

// DailyRateCalculator bills every started day. Ranges shorter than a day,
// including inverted ones, are billed as one day.
type DailyRateCalculator struct{}

func NewDailyRateCalculator() *DailyRateCalculator {
	return &DailyRateCalculator{}
}

func (DailyRateCalculator) Quote(start, end time.Time, dailyRate money.Money) Quote {
	days := DurationDays(start, end)
	return Quote{
		DurationDays: days,
		DailyRate:    dailyRate,
		BasePrice:    dailyRate.MulInt(int64(days)),
	}
}

func DurationDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 1
	}
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}
