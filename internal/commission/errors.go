package commission

import "errors"

var ErrRestaurantNotFound = errors.New("restaurant not found")

// Payment methods accepted on the manual ledger.
var PaymentMethods = map[string]bool{
	"cash":          true,
	"bank_transfer": true,
	"check":         true,
	"other":         true,
}

func ValidPaymentMethod(method string) bool {
	return PaymentMethods[method]
}
