package internal_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beledshul/sponsorship/internal"
)

var _ = Describe("AppError", func() {
	Describe("GetDetailedMessage", func() {
		It("should join every field message", func() {
			appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
				WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
					{Field: "member_name", Message: "member_name is required"},
					{Field: "cvv", Message: "CVV must be 3 digits (4 for Amex)"},
				}})

			Expect(appErr.GetDetailedMessage()).To(Equal(
				"member_name is required; CVV must be 3 digits (4 for Amex)"))
		})

		It("should fall back to the plain message without details", func() {
			appErr := internal.NewValidationError("year is required", internal.ErrCodeInvalidYear)
			Expect(appErr.GetDetailedMessage()).To(Equal("year is required"))
		})
	})

	Describe("WithCause", func() {
		It("should surface the cause in Error and Unwrap", func() {
			cause := errors.New("strconv.Atoi: parsing \"abc\": invalid syntax")
			appErr := internal.NewValidationError("year must be a number", internal.ErrCodeInvalidYear).
				WithCause(cause)

			Expect(appErr.Error()).To(ContainSubstring("year must be a number"))
			Expect(errors.Unwrap(appErr)).To(Equal(cause))
		})
	})

	Describe("WithDetails", func() {
		It("should report the first field message as the error string", func() {
			appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
				WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
					{Field: "expiry", Message: "expiry must be MM/YY and not in the past"},
				}})

			Expect(appErr.Error()).To(Equal("expiry must be MM/YY and not in the past"))
		})
	})
})
