package kyc

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the wire format for every date field on the form.
	DateLayout = "2006-01-02"

	minAge = 18
	maxAge = 100

	nameMinLen = 2
	nameMaxLen = 50
)

var (
	rgxName           = regexp.MustCompile(`^[a-zA-Z ]+$`)
	rgxPassportNumber = regexp.MustCompile(`^[A-Z0-9]{6,9}$`)

	// Amounts above this are not rejected, they only raise a soft
	// "please verify" warning for the reviewer.
	largeAmountThreshold = decimal.NewFromInt(1_000_000)
)

// ValidateName checks a person-name field: non-empty, letters and spaces
// only, between 2 and 50 characters.
func ValidateName(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "This field is required", false
	}
	if len(value) < nameMinLen || len(value) > nameMaxLen {
		return fmt.Sprintf("Must be between %d and %d characters", nameMinLen, nameMaxLen), false
	}
	if !rgxName.MatchString(value) {
		return "Only letters and spaces are allowed", false
	}
	return "", true
}

// NormalizePassportNumber uppercases and trims a raw passport number so the
// checks (and the stored record) are case-insensitive.
func NormalizePassportNumber(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// ValidatePassportNumber checks 6-9 alphanumeric characters after
// normalization.
func ValidatePassportNumber(value string) (string, bool) {
	normalized := NormalizePassportNumber(value)
	if normalized == "" {
		return "Passport number is required", false
	}
	if !rgxPassportNumber.MatchString(normalized) {
		return "Must be 6-9 letters or digits", false
	}
	return "", true
}

// ParseDate parses a form date value. The zero time and false are returned
// for anything that is not a real calendar date.
func ParseDate(value string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidateAmount checks the estimated conversion amount: numeric and
// strictly positive. The returned warning is non-blocking and set only for
// unusually large amounts.
func ValidateAmount(value string) (errMsg string, warning string, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Estimated amount is required", "", false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return "Must be a valid number", "", false
	}
	if !amount.IsPositive() {
		return "Must be greater than zero", "", false
	}
	if amount.GreaterThan(largeAmountThreshold) {
		warning = "Unusually large amount, additional verification may be required"
	}
	return "", warning, true
}

// ValidateSelection checks an enum-like field against its allowed set.
func ValidateSelection(value string, allowed []string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "This field is required", false
	}
	if !slices.Contains(allowed, value) {
		return "Must be one of the available options", false
	}
	return "", true
}

// ValidateStep runs the required-field and cross-field rules for one step of
// the form. An empty map means the step is valid and the wizard may advance.
// Steps 1-4 read the form; step 5 reads the document set.
func ValidateStep(form *Form, docs *DocumentSet, step int) map[Field]string {
	errs := make(map[Field]string)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch step {
	case 1:
		validatePersonalStep(form, today, errs)
	case 2:
		validatePassportStep(form, today, errs)
	case 3:
		validateVisaStep(form, today, errs)
	case 4:
		validateFinancialStep(form, errs)
	case 5:
		for _, slot := range DocumentFields() {
			if _, bound := docs.Get(slot); !bound {
				errs[slot] = "This document is required"
			}
		}
	}

	return errs
}

func validatePersonalStep(form *Form, today time.Time, errs map[Field]string) {
	if msg, ok := ValidateName(form.FirstName); !ok {
		errs[FieldFirstName] = msg
	}
	// middle name is optional, but when present it follows the name rules
	if strings.TrimSpace(form.MiddleName) != "" {
		if msg, ok := ValidateName(form.MiddleName); !ok {
			errs[FieldMiddleName] = msg
		}
	}
	if msg, ok := ValidateName(form.LastName); !ok {
		errs[FieldLastName] = msg
	}

	dob, ok := ParseDate(form.DateOfBirth)
	if !ok {
		errs[FieldDateOfBirth] = "Must be a valid date"
	} else {
		switch {
		case dob.After(today):
			errs[FieldDateOfBirth] = "Cannot be in the future"
		case ageOn(dob, today) < minAge:
			errs[FieldDateOfBirth] = fmt.Sprintf("You must be at least %d years old", minAge)
		case ageOn(dob, today) > maxAge:
			errs[FieldDateOfBirth] = "Please enter a valid date of birth"
		}
	}

	if msg, ok := ValidateSelection(form.Nationality, Nationalities); !ok {
		errs[FieldNationality] = msg
	}
}

func validatePassportStep(form *Form, today time.Time, errs map[Field]string) {
	if msg, ok := ValidatePassportNumber(form.PassportNumber); !ok {
		errs[FieldPassportNumber] = msg
	}
	if strings.TrimSpace(form.PassportIssuePlace) == "" {
		errs[FieldPassportIssuePlace] = "Place of issue is required"
	}

	issue, issueOK := ParseDate(form.PassportIssueDate)
	if !issueOK {
		errs[FieldPassportIssueDate] = "Must be a valid date"
	} else if issue.After(today) {
		errs[FieldPassportIssueDate] = "Cannot be in the future"
	}

	expiry, expiryOK := ParseDate(form.PassportExpiryDate)
	if !expiryOK {
		errs[FieldPassportExpiryDate] = "Must be a valid date"
	} else if !expiry.After(today) {
		errs[FieldPassportExpiryDate] = "Passport has expired"
	} else if issueOK && !issue.Before(expiry) {
		errs[FieldPassportExpiryDate] = "Must be after issue date"
	}
}

func validateVisaStep(form *Form, today time.Time, errs map[Field]string) {
	if msg, ok := ValidateSelection(form.VisaType, VisaTypes); !ok {
		errs[FieldVisaType] = msg
	}

	issue, issueOK := ParseDate(form.VisaIssueDate)
	if !issueOK {
		errs[FieldVisaIssueDate] = "Must be a valid date"
	} else if issue.After(today) {
		errs[FieldVisaIssueDate] = "Cannot be in the future"
	}

	expiry, expiryOK := ParseDate(form.VisaExpiryDate)
	if !expiryOK {
		errs[FieldVisaExpiryDate] = "Must be a valid date"
	} else if !expiry.After(today) {
		errs[FieldVisaExpiryDate] = "Visa has expired"
	} else if issueOK && !issue.Before(expiry) {
		errs[FieldVisaExpiryDate] = "Must be after issue date"
	}

	exit, exitOK := ParseDate(form.ExpectedExitDate)
	if !exitOK {
		errs[FieldExpectedExitDate] = "Must be a valid date"
	} else if exit.Before(today) {
		errs[FieldExpectedExitDate] = "Cannot be in the past"
	} else if expiryOK && exit.After(expiry) {
		errs[FieldExpectedExitDate] = "Cannot be after visa expiry date"
	}
}

func validateFinancialStep(form *Form, errs map[Field]string) {
	if msg, ok := ValidateSelection(form.SourceOfFunds, FundsSources); !ok {
		errs[FieldSourceOfFunds] = msg
	}
	if msg, _, ok := ValidateAmount(form.EstimatedAmountToConvert); !ok {
		errs[FieldEstimatedAmount] = msg
	}
	if msg, ok := ValidateSelection(form.MonthlyIncomeRange, IncomeRanges); !ok {
		errs[FieldMonthlyIncomeRange] = msg
	}
}

// Warnings returns the soft, non-blocking notices for the current form
// values. These never prevent the wizard from advancing or submitting.
func (f *Form) Warnings() map[Field]string {
	warnings := make(map[Field]string)
	if _, warning, ok := ValidateAmount(f.EstimatedAmountToConvert); ok && warning != "" {
		warnings[FieldEstimatedAmount] = warning
	}
	return warnings
}

// ageOn computes whole years between a birth date and a reference day.
func ageOn(dob, on time.Time) int {
	years := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		years--
	}
	return years
}
