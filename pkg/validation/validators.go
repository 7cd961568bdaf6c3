package validation

import (
	"regexp"
	"unicode"

	"github.com/vineshkkmr/job-board/internal/domain"

	"github.com/go-playground/validator/v10"
)

// ISO 4217 style: three upper-case letters
var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("job_type", JobType)
	_ = v.RegisterValidation("job_status", JobStatus)
	_ = v.RegisterValidation("application_status", ApplicationStatus)
	_ = v.RegisterValidation("currency", Currency)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// JobType accepts one of full-time, part-time, contract, internship
func JobType(fl validator.FieldLevel) bool {
	switch domain.JobType(fl.Field().String()) {
	case domain.JobTypeFullTime, domain.JobTypePartTime, domain.JobTypeContract, domain.JobTypeInternship:
		return true
	}
	return false
}

func JobStatus(fl validator.FieldLevel) bool {
	return domain.JobStatus(fl.Field().String()).Valid()
}

func ApplicationStatus(fl validator.FieldLevel) bool {
	switch domain.ApplicationStatus(fl.Field().String()) {
	case domain.ApplicationStatusPending, domain.ApplicationStatusReviewed,
		domain.ApplicationStatusAccepted, domain.ApplicationStatusRejected:
		return true
	}
	return false
}

// Currency validates a three-letter currency code. Empty is allowed; the usecase defaults it.
func Currency(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return currencyRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
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
