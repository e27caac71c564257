package api

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
)

// registerValidators adds the project's custom binding tags to gin's validator.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("booking_kind", validateBookingKind)
}

// validateBookingKind accepts the exact name of a known facility kind.
func validateBookingKind(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	k, err := booking.ParseKind(s)
	return err == nil && string(k) == s
}
