package memstore

import (
	"time"

	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixed ids of the demo catalog so local clients can reference them.
var (
	DemoCompactID = uuid.MustParse("0b7e5a34-7b8e-4c43-9a57-0f3f1c2d0a01")
	DemoSedanID   = uuid.MustParse("0b7e5a34-7b8e-4c43-9a57-0f3f1c2d0a02")
	DemoVanID     = uuid.MustParse("0b7e5a34-7b8e-4c43-9a57-0f3f1c2d0a03")
)

// SeedDemo loads a small catalog and two promotions valid around now.
func (s *Store) SeedDemo(now time.Time) error {
	cars := []struct {
		id        uuid.UUID
		name      string
		category  string
		rate      int64
		available bool
	}{
		{DemoCompactID, "Toyota Yaris", "compact", 45, true},
		{DemoSedanID, "Honda Accord", "sedan", 70, true},
		{DemoVanID, "Ford Transit", "van", 110, false},
	}
	for _, c := range cars {
		entity, err := car.NewCar(c.id, c.name, c.category, money.FromInt(c.rate), c.available)
		if err != nil {
			return err
		}
		s.SeedCar(car.ReconstructCar(entity.ID(), entity.Name(), entity.Category(), entity.DailyRate(), entity.Available(), now, now))
	}

	pct, err := promotion.NewDiscount(promotion.DiscountPercentage, decimal.NewFromInt(10), nil)
	if err != nil {
		return err
	}
	flat, err := promotion.NewDiscount(promotion.DiscountFixed, decimal.NewFromInt(25), nil)
	if err != nil {
		return err
	}

	promotions := []promotion.Params{
		{
			ID:         uuid.New(),
			Code:       "WELCOME10",
			Discount:   pct,
			ValidFrom:  now.AddDate(0, -1, 0),
			ValidTo:    now.AddDate(1, 0, 0),
			UsageLimit: 100,
			Active:     true,
		},
		{
			ID:                 uuid.New(),
			Code:               "SEDAN25",
			Discount:           flat,
			MinBookingAmount:   money.FromInt(100),
			ValidFrom:          now.AddDate(0, -1, 0),
			ValidTo:            now.AddDate(0, 3, 0),
			UsageLimit:         5,
			ApplicableVehicles: []uuid.UUID{DemoSedanID},
			Active:             true,
		},
	}
	for _, p := range promotions {
		if _, err := promotion.NewPromotion(p); err != nil {
			return err
		}
		s.SeedPromotion(promotion.ReconstructPromotion(p, now, now))
	}
	return nil
}
