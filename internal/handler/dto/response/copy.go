package response

import (
	"fmt"

	"car-rental-api/internal/pkg/money"

	"github.com/jinzhu/copier"
)

// copier treats *money.Money as an sql.Scanner target, so optional amounts
// are passed through as is.
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: (*money.Money)(nil),
			DstType: (*money.Money)(nil),
			Fn: func(src any) (any, error) {
				m, _ := src.(*money.Money)
				if m == nil {
					return (*money.Money)(nil), nil
				}
				v := *m
				return &v, nil
			},
		},
	},
}

// copyTo maps src onto a new T by field name. Named string types such as
// statuses are converted to plain strings.
func copyTo[T any](src any) *T {
	dst := new(T)
	if err := copier.CopyWithOption(dst, src, copyOption); err != nil {
		panic(fmt.Sprintf("response: copy %T: %v", src, err))
	}
	return dst
}
