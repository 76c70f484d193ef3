package kyc

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func dateFromNow(days int) string {
	return time.Now().AddDate(0, 0, days).Format(DateLayout)
}

func yearsAgo(years int) string {
	return time.Now().AddDate(-years, 0, -1).Format(DateLayout)
}

// validForm fills every step with values that pass validation.
func validForm() *Form {
	return &Form{
		FirstName:   "Anita",
		MiddleName:  "",
		LastName:    "Sharma",
		DateOfBirth: yearsAgo(30),
		Nationality: "India",

		PassportNumber:     "P1234567",
		PassportIssuePlace: "New Delhi",
		PassportIssueDate:  dateFromNow(-365),
		PassportExpiryDate: dateFromNow(365 * 5),

		VisaType:         "Tourist",
		VisaIssueDate:    dateFromNow(-10),
		VisaExpiryDate:   dateFromNow(90),
		ExpectedExitDate: dateFromNow(60),

		SourceOfFunds:            "Salary",
		EstimatedAmountToConvert: "2500",
		MonthlyIncomeRange:       "$1000-$3000",
	}
}

func completeDocs(t *testing.T) *DocumentSet {
	t.Helper()

	docs := NewDocumentSet()
	for _, slot := range DocumentFields() {
		err := docs.Bind(slot, Document{
			Name:        string(slot) + ".jpg",
			Size:        1024,
			ContentType: "image/jpeg",
		})
		require.NoError(t, err)
	}
	return docs
}

func TestValidateStep_ValidFormPassesEveryStep(t *testing.T) {
	form := validForm()
	docs := completeDocs(t)

	for step := FirstStep; step <= LastStep; step++ {
		errs := ValidateStep(form, docs, step)
		require.Empty(t, errs, "step %d", step)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"valid", "Anita", true},
		{"valid with space", "Mary Jane", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"too short", "A", false},
		{"digits", "An1ta", false},
		{"too long", "Abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ValidateName(tt.value)
			require.Equal(t, tt.ok, ok)
		})
	}
}

func TestValidatePassportNumber(t *testing.T) {
	_, ok := ValidatePassportNumber("p1234567")
	require.True(t, ok, "lowercase input is normalized before the check")

	_, ok = ValidatePassportNumber("  AB123456  ")
	require.True(t, ok)

	_, ok = ValidatePassportNumber("AB-123")
	require.False(t, ok)

	_, ok = ValidatePassportNumber("AB123")
	require.False(t, ok, "five characters is below the minimum")

	_, ok = ValidatePassportNumber("AB12345678")
	require.False(t, ok, "ten characters is above the maximum")

	require.Equal(t, "AB123456", NormalizePassportNumber(" ab123456 "))
}

func TestValidateStep_UnderageRejected(t *testing.T) {
	form := validForm()
	form.DateOfBirth = time.Now().AddDate(-17, 0, 0).Format(DateLayout)

	errs := ValidateStep(form, nil, 1)
	require.Contains(t, errs, FieldDateOfBirth)
}

func TestValidateStep_ImplausiblyOldRejected(t *testing.T) {
	form := validForm()
	form.DateOfBirth = time.Now().AddDate(-120, 0, 0).Format(DateLayout)

	errs := ValidateStep(form, nil, 1)
	require.Contains(t, errs, FieldDateOfBirth)
}

func TestValidateStep_FutureDateOfBirthRejected(t *testing.T) {
	form := validForm()
	form.DateOfBirth = dateFromNow(10)

	errs := ValidateStep(form, nil, 1)
	require.Contains(t, errs, FieldDateOfBirth)
}

func TestValidateStep_UnknownNationalityRejected(t *testing.T) {
	form := validForm()
	form.Nationality = "Atlantis"

	errs := ValidateStep(form, nil, 1)
	require.Contains(t, errs, FieldNationality)
}

func TestValidateStep_PassportExpiryBeforeIssue(t *testing.T) {
	form := validForm()
	form.PassportIssueDate = "2020-01-01"
	form.PassportExpiryDate = "2019-01-01"

	errs := ValidateStep(form, nil, 2)

	// the ordering violation lands on the expiry field; here it reads as
	// an already expired passport since 2019 is in the past
	require.Contains(t, errs, FieldPassportExpiryDate)
	require.NotContains(t, errs, FieldPassportIssueDate)
}

func TestValidateStep_PassportExpiryOrderingError(t *testing.T) {
	form := validForm()
	form.PassportIssueDate = dateFromNow(-10)
	form.PassportExpiryDate = dateFromNow(-20)

	errs := ValidateStep(form, nil, 2)
	require.Equal(t, "Passport has expired", errs[FieldPassportExpiryDate])

	// future expiry that still precedes the issue date reports the ordering
	form.PassportIssueDate = dateFromNow(40)
	form.PassportExpiryDate = dateFromNow(20)

	errs = ValidateStep(form, nil, 2)
	require.Contains(t, errs, FieldPassportIssueDate, "issue date in the future")
	require.Equal(t, "Must be after issue date", errs[FieldPassportExpiryDate])
}

func TestValidateStep_ExitAfterVisaExpiryRejected(t *testing.T) {
	form := validForm()
	form.VisaExpiryDate = dateFromNow(30)
	form.ExpectedExitDate = dateFromNow(45)

	errs := ValidateStep(form, nil, 3)
	require.Equal(t, "Cannot be after visa expiry date", errs[FieldExpectedExitDate])
}

func TestValidateStep_ExitInThePastRejected(t *testing.T) {
	form := validForm()
	form.ExpectedExitDate = dateFromNow(-5)

	errs := ValidateStep(form, nil, 3)
	require.Equal(t, "Cannot be in the past", errs[FieldExpectedExitDate])
}

func TestValidateStep_FinancialFields(t *testing.T) {
	form := validForm()
	form.SourceOfFunds = "Inheritance"
	form.EstimatedAmountToConvert = "-5"
	form.MonthlyIncomeRange = ""

	errs := ValidateStep(form, nil, 4)
	require.Contains(t, errs, FieldSourceOfFunds)
	require.Contains(t, errs, FieldEstimatedAmount)
	require.Contains(t, errs, FieldMonthlyIncomeRange)
}

func TestValidateAmount(t *testing.T) {
	msg, _, ok := ValidateAmount("")
	require.False(t, ok)
	require.NotEmpty(t, msg)

	_, _, ok = ValidateAmount("12abc")
	require.False(t, ok)

	_, _, ok = ValidateAmount("0")
	require.False(t, ok)

	_, warning, ok := ValidateAmount("2500.50")
	require.True(t, ok)
	require.Empty(t, warning)
}

func TestValidateAmount_LargeAmountWarnsButPasses(t *testing.T) {
	_, warning, ok := ValidateAmount("1000001")
	require.True(t, ok, "large amounts are never rejected")
	require.NotEmpty(t, warning)

	// exactly at the threshold stays silent
	_, warning, ok = ValidateAmount("1000000")
	require.True(t, ok)
	require.Empty(t, warning)
}

func TestWarnings_LargeAmount(t *testing.T) {
	form := validForm()
	form.EstimatedAmountToConvert = "5000000"

	warnings := form.Warnings()
	require.Contains(t, warnings, FieldEstimatedAmount)

	form.EstimatedAmountToConvert = "100"
	require.Empty(t, form.Warnings())
}

func TestValidateStep_MissingDocuments(t *testing.T) {
	form := validForm()
	docs := NewDocumentSet()

	errs := ValidateStep(form, docs, 5)
	require.Len(t, errs, 4)
	for _, slot := range DocumentFields() {
		require.Contains(t, errs, slot)
	}
}

func TestValidateStep_MiddleNameOptional(t *testing.T) {
	form := validForm()
	form.MiddleName = ""
	require.Empty(t, ValidateStep(form, nil, 1))

	form.MiddleName = "Kumari"
	require.Empty(t, ValidateStep(form, nil, 1))

	form.MiddleName = "K3"
	errs := ValidateStep(form, nil, 1)
	require.Contains(t, errs, FieldMiddleName)
}

func TestAgeOn_BirthdayBoundary(t *testing.T) {
	today := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	dayBefore := time.Date(2008, 6, 16, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 17, ageOn(dayBefore, today))

	onBirthday := time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 18, ageOn(onBirthday, today))
}

func TestParseDate(t *testing.T) {
	for _, value := range []string{"2026-02-30", "01-01-2026", "yesterday", ""} {
		t.Run(fmt.Sprintf("rejects %q", value), func(t *testing.T) {
			_, ok := ParseDate(value)
			require.False(t, ok)
		})
	}

	parsed, ok := ParseDate(" 2026-01-31 ")
	require.True(t, ok)
	require.Equal(t, 2026, parsed.Year())
}
