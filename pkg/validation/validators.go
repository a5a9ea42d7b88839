package validation

import (
	"regexp"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Letters in any script, spaces and the punctuation people put in names: . ' -
	nameRegex = regexp.MustCompile(`^[\p{L} .'-]+$`)

	// Optional +, then digits with common separators
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()-]+$`)
)

const minPhoneDigits = 9

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("past_date", PastDate)
}

// ValidName rejects digits and most symbols. Empty passes; use required.
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

// ValidPhone accepts a number with at least nine digits.
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	if !phoneRegex.MatchString(val) {
		return false
	}
	digits := 0
	for _, r := range val {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// PastDate checks an ISO date (YYYY-MM-DD) that is not in the future.
func PastDate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	d, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return false
	}
	return !d.After(time.Now())
}
