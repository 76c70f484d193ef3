package kyc

// Field identifies a single input of the five-step verification form.
// Using a named type means a typo in a field name fails to compile instead
// of silently producing an error map nobody reads.
type Field string

const (
	// Step 1: personal information
	FieldFirstName   Field = "firstName"
	FieldMiddleName  Field = "middleName"
	FieldLastName    Field = "lastName"
	FieldDateOfBirth Field = "dateOfBirth"
	FieldNationality Field = "nationality"

	// Step 2: passport
	FieldPassportNumber     Field = "passportNumber"
	FieldPassportIssuePlace Field = "passportIssuePlace"
	FieldPassportIssueDate  Field = "passportIssueDate"
	FieldPassportExpiryDate Field = "passportExpiryDate"

	// Step 3: visa and travel
	FieldVisaType         Field = "visaType"
	FieldVisaIssueDate    Field = "visaIssueDate"
	FieldVisaExpiryDate   Field = "visaExpiryDate"
	FieldExpectedExitDate Field = "expectedExitDate"

	// Step 4: financial profile
	FieldSourceOfFunds      Field = "sourceOfFunds"
	FieldEstimatedAmount    Field = "estimatedAmountToConvert"
	FieldMonthlyIncomeRange Field = "monthlyIncomeRange"

	// Step 5: document slots
	FieldPassportPhotoPage Field = "passportPhotoPage"
	FieldVisaPage          Field = "visaPage"
	FieldSelfie            Field = "selfie"
	FieldProofOfAddress    Field = "proofOfAddress"
)

const (
	FirstStep = 1
	LastStep  = 5
)

// Allowed selections for the enum-like fields. The wizard renders these as
// dropdowns; an empty or unknown value is rejected during step validation.
var (
	Nationalities = []string{"Nepal", "India", "China", "USA"}

	VisaTypes = []string{"Tourist", "Business", "Student", "Work"}

	FundsSources = []string{"Salary", "Business", "Savings", "Other"}

	IncomeRanges = []string{"Below $1000", "$1000-$3000", "$3000-$5000", "Above $5000"}
)

// Form holds the raw values of steps 1-4 exactly as the user entered them.
// Values stay as strings until validation; dates use the 2006-01-02 layout
// and the amount is parsed as a decimal.
type Form struct {
	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth string
	Nationality string

	PassportNumber     string
	PassportIssuePlace string
	PassportIssueDate  string
	PassportExpiryDate string

	VisaType         string
	VisaIssueDate    string
	VisaExpiryDate   string
	ExpectedExitDate string

	SourceOfFunds            string
	EstimatedAmountToConvert string
	MonthlyIncomeRange       string
}

// Set assigns a raw value to the named field. Document fields are not part
// of the form; they are bound through a DocumentSet.
func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldMiddleName:
		f.MiddleName = value
	case FieldLastName:
		f.LastName = value
	case FieldDateOfBirth:
		f.DateOfBirth = value
	case FieldNationality:
		f.Nationality = value
	case FieldPassportNumber:
		f.PassportNumber = value
	case FieldPassportIssuePlace:
		f.PassportIssuePlace = value
	case FieldPassportIssueDate:
		f.PassportIssueDate = value
	case FieldPassportExpiryDate:
		f.PassportExpiryDate = value
	case FieldVisaType:
		f.VisaType = value
	case FieldVisaIssueDate:
		f.VisaIssueDate = value
	case FieldVisaExpiryDate:
		f.VisaExpiryDate = value
	case FieldExpectedExitDate:
		f.ExpectedExitDate = value
	case FieldSourceOfFunds:
		f.SourceOfFunds = value
	case FieldEstimatedAmount:
		f.EstimatedAmountToConvert = value
	case FieldMonthlyIncomeRange:
		f.MonthlyIncomeRange = value
	}
}
