package catalog

// Field category keys. Batch ordering in the agent keys off these.
const (
	CategoryPersonal       = "personal"
	CategoryIdentification = "identification"
	CategoryContact        = "contact"
	CategoryAddress        = "address"
	CategoryEmployment     = "employment"
	CategoryEducation      = "education"
	CategoryFinancial      = "financial"
	CategoryTravel         = "travel"
)

var personalFields = []FieldDefinition{
	{Name: "full_name", Description: "Full legal name as printed on the document", Category: CategoryPersonal, Examples: []string{"JOHN MICHAEL SMITH", "Maria Garcia-Lopez"}, Required: true},
	{Name: "first_name", Description: "Given name(s)", Category: CategoryPersonal, Examples: []string{"JOHN", "Maria"}, Required: true},
	{Name: "last_name", Description: "Surname or family name", Category: CategoryPersonal, Examples: []string{"SMITH", "Garcia-Lopez"}, Required: true},
	{Name: "date_of_birth", Description: "Date of birth", Category: CategoryPersonal, Examples: []string{"1985-03-14", "14 MAR 1985"}, ValidationRules: []string{"past date"}, Required: true},
	{Name: "place_of_birth", Description: "City and country of birth", Category: CategoryPersonal, Examples: []string{"Mumbai, India", "Lagos, Nigeria"}},
	{Name: "gender", Description: "Sex or gender marker", Category: CategoryPersonal, Examples: []string{"M", "F", "X"}},
	{Name: "nationality", Description: "Nationality or citizenship", Category: CategoryPersonal, Examples: []string{"Indian", "Brazilian"}, Required: true},
	{Name: "marital_status", Description: "Marital status", Category: CategoryPersonal, Examples: []string{"Single", "Married"}},
}

var identificationFields = []FieldDefinition{
	{Name: "passport_number", Description: "Passport number", Category: CategoryIdentification, Examples: []string{"A1234567", "Z98765432"}, ValidationRules: []string{"6-9 uppercase alphanumeric characters"}, Required: true},
	{Name: "passport_issue_date", Description: "Passport issue date", Category: CategoryIdentification, Examples: []string{"2019-06-01"}},
	{Name: "passport_expiry_date", Description: "Passport expiration date", Category: CategoryIdentification, Examples: []string{"2029-05-31"}},
	{Name: "passport_issuing_authority", Description: "Authority or country that issued the passport", Category: CategoryIdentification, Examples: []string{"Republic of India"}},
	{Name: "visa_number", Description: "Visa foil number", Category: CategoryIdentification, Examples: []string{"K1234567", "2021-AB-9876"}, ValidationRules: []string{"8-12 uppercase alphanumeric characters and hyphens"}},
	{Name: "visa_class", Description: "Visa class or category", Category: CategoryIdentification, Examples: []string{"B1/B2", "F-1"}},
	{Name: "national_id", Description: "National identity number", Category: CategoryIdentification, Examples: []string{"1234-5678-9012"}},
	{Name: "alien_registration_number", Description: "USCIS alien registration number if any", Category: CategoryIdentification, Examples: []string{"A012345678"}},
}

var contactFields = []FieldDefinition{
	{Name: "email", Description: "Email address", Category: CategoryContact, Examples: []string{"john.smith@example.com"}, ValidationRules: []string{"local@domain.tld"}, Required: true},
	{Name: "phone", Description: "Primary phone number with country code", Category: CategoryContact, Examples: []string{"+1 415 555 0133", "+91-98765-43210"}, ValidationRules: []string{"10-15 digits"}, Required: true},
	{Name: "alternate_phone", Description: "Secondary phone number", Category: CategoryContact, Examples: []string{"+1 415 555 0188"}},
}

var addressFields = []FieldDefinition{
	{Name: "street_address", Description: "Street address line", Category: CategoryAddress, Examples: []string{"42 Marine Drive, Apt 7B"}, Required: true},
	{Name: "city", Description: "City or town", Category: CategoryAddress, Examples: []string{"Mumbai", "Sao Paulo"}, Required: true},
	{Name: "state_province", Description: "State, province or region", Category: CategoryAddress, Examples: []string{"Maharashtra", "California"}},
	{Name: "postal_code", Description: "Postal or ZIP code", Category: CategoryAddress, Examples: []string{"400001", "94105-1804"}, ValidationRules: []string{"3-10 alphanumeric characters"}},
	{Name: "country", Description: "Country of residence", Category: CategoryAddress, Examples: []string{"India", "Brazil"}, Required: true},
}

var employmentFields = []FieldDefinition{
	{Name: "employer_name", Description: "Current employer name", Category: CategoryEmployment, Examples: []string{"Tata Consultancy Services"}, Required: true},
	{Name: "job_title", Description: "Current job title", Category: CategoryEmployment, Examples: []string{"Senior Software Engineer"}},
	{Name: "employer_address", Description: "Employer street address", Category: CategoryEmployment, Examples: []string{"1 Corporate Park, Pune"}},
	{Name: "employment_start_date", Description: "Date employment began", Category: CategoryEmployment, Examples: []string{"2018-07-01"}},
	{Name: "monthly_salary", Description: "Monthly salary with currency", Category: CategoryEmployment, Examples: []string{"INR 250,000"}},
	{Name: "job_duties", Description: "Brief description of duties", Category: CategoryEmployment, Examples: []string{"Designs and maintains payment services"}},
}

var educationFields = []FieldDefinition{
	{Name: "school_name", Description: "Name of school or university", Category: CategoryEducation, Examples: []string{"University of Mumbai"}, Required: true},
	{Name: "degree", Description: "Degree or diploma earned", Category: CategoryEducation, Examples: []string{"Bachelor of Engineering"}},
	{Name: "field_of_study", Description: "Major or field of study", Category: CategoryEducation, Examples: []string{"Computer Science"}},
	{Name: "education_start_date", Description: "Date of enrollment", Category: CategoryEducation, Examples: []string{"2010-08-01"}},
	{Name: "education_end_date", Description: "Date of graduation or leaving", Category: CategoryEducation, Examples: []string{"2014-05-30"}},
}

var financialFields = []FieldDefinition{
	{Name: "bank_name", Description: "Name of the bank", Category: CategoryFinancial, Examples: []string{"State Bank of India"}},
	{Name: "account_balance", Description: "Account balance with currency", Category: CategoryFinancial, Examples: []string{"USD 45,000"}},
	{Name: "annual_income", Description: "Annual income with currency", Category: CategoryFinancial, Examples: []string{"INR 3,000,000"}},
	{Name: "sponsor_name", Description: "Name of financial sponsor if any", Category: CategoryFinancial, Examples: []string{"Rajesh Kumar"}},
	{Name: "statement_period", Description: "Period covered by the statement", Category: CategoryFinancial, Examples: []string{"Jan 2024 - Jun 2024"}},
}

var travelFields = []FieldDefinition{
	{Name: "intended_arrival_date", Description: "Intended date of arrival in the U.S.", Category: CategoryTravel, Examples: []string{"2025-09-15"}},
	{Name: "intended_departure_date", Description: "Intended date of departure from the U.S.", Category: CategoryTravel, Examples: []string{"2025-12-20"}},
	{Name: "destination_address", Description: "Address where the applicant will stay", Category: CategoryTravel, Examples: []string{"300 W 23rd St, New York, NY"}},
	{Name: "trip_purpose", Description: "Purpose of the trip", Category: CategoryTravel, Examples: []string{"Tourism", "Business conference"}},
	{Name: "previous_us_travel", Description: "Dates of previous travel to the U.S.", Category: CategoryTravel, Examples: []string{"2019-03-02 to 2019-03-20"}},
}
