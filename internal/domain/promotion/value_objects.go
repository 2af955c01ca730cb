package promotion

import (
	"regexp"
	"strings"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCode            = errs.Sentinel("invalid promotion code format", errs.ErrValidation)
	ErrInvalidDiscountType    = errs.Sentinel("invalid discount type", errs.ErrValidation)
	ErrInvalidDiscountAmount  = errs.Sentinel("discount amount cannot be negative", errs.ErrValidation)
	ErrInvalidDiscountPercent = errs.Sentinel("percentage discount must be between 0 and 100", errs.ErrValidation)
	ErrInvalidDiscountCap     = errs.Sentinel("discount cap cannot be negative", errs.ErrValidation)
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !codeRegex.MatchString(code) {
		return Code(""), ErrInvalidCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountPercentage, DiscountFixed:
		return true
	default:
		return false
	}
}

var hundred = decimal.NewFromInt(100)

// Discount is the pricing rule of a promotion: a percentage or a fixed
// amount, optionally capped.
type Discount struct {
	kind  DiscountType
	value decimal.Decimal
	cap   *money.Money
}

func NewDiscount(kind DiscountType, value decimal.Decimal, maxDiscount *money.Money) (Discount, error) {
	switch kind {
	case DiscountPercentage:
		if value.IsNegative() || value.GreaterThan(hundred) {
			return Discount{}, ErrInvalidDiscountPercent
		}
	case DiscountFixed:
		if value.IsNegative() {
			return Discount{}, ErrInvalidDiscountAmount
		}
	default:
		return Discount{}, ErrInvalidDiscountType
	}
	if maxDiscount != nil && maxDiscount.IsNegative() {
		return Discount{}, ErrInvalidDiscountCap
	}
	return Discount{kind: kind, value: value, cap: maxDiscount}, nil
}

// Amount computes the discount for amount. The result is never negative
// and never greater than amount or the cap.
func (d Discount) Amount(amount money.Money) money.Money {
	if amount.IsNegative() {
		return money.Zero
	}

	var off money.Money
	switch d.kind {
	case DiscountPercentage:
		off = amount.Percent(d.value)
	case DiscountFixed:
		off = money.New(d.value)
	default:
		return money.Zero
	}

	if d.cap != nil {
		off = off.Min(*d.cap)
	}
	return off.Clamp(amount)
}

func (d Discount) Type() DiscountType        { return d.kind }
func (d Discount) Value() decimal.Decimal    { return d.value }
func (d Discount) MaxDiscount() *money.Money { return d.cap }
