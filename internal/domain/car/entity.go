package car

import (
	"strings"
	"time"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrCarNotFound    = errs.Sentinel("car not found", errs.ErrNotFound)
	ErrCarUnavailable = errs.Sentinel("car is not available for rent", errs.ErrInvalidState)
	ErrNegativeRate   = errs.Sentinel("daily rate cannot be negative", errs.ErrValidation)
	ErrEmptyName      = errs.Sentinel("car name cannot be empty", errs.ErrValidation)
)

// Car is the catalog entry a booking rents. The catalog owns it; this
// service only reads it.
type Car struct {
	id        uuid.UUID
	name      string
	category  string
	dailyRate money.Money
	available bool
	createdAt time.Time
	updatedAt time.Time
}

func NewCar(id uuid.UUID, name, category string, dailyRate money.Money, available bool) (*Car, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if dailyRate.IsNegative() {
		return nil, ErrNegativeRate
	}
	return &Car{
		id:        id,
		name:      name,
		category:  strings.TrimSpace(category),
		dailyRate: dailyRate,
		available: available,
	}, nil
}

func ReconstructCar(
	id uuid.UUID,
	name, category string,
	dailyRate money.Money,
	available bool,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:        id,
		name:      name,
		category:  category,
		dailyRate: dailyRate,
		available: available,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// EnsureRentable returns ErrCarUnavailable when the availability flag is off.
func (c *Car) EnsureRentable() error {
	if !c.available {
		return ErrCarUnavailable
	}
	return nil
}

func (c *Car) ID() uuid.UUID          { return c.id }
func (c *Car) Name() string           { return c.name }
func (c *Car) Category() string       { return c.category }
func (c *Car) DailyRate() money.Money { return c.dailyRate }
func (c *Car) Available() bool        { return c.available }
func (c *Car) CreatedAt() time.Time   { return c.createdAt }
func (c *Car) UpdatedAt() time.Time   { return c.updatedAt }
