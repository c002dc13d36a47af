// Package catalog is the static registry of extractable fields per
// document type. It is pure data: templates are built once at load time
// and never mutated.
package catalog

// FieldDefinition describes one extractable field.
type FieldDefinition struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Examples        []string `json:"examples"`
	ValidationRules []string `json:"validation_rules,omitempty"`
	Required        bool     `json:"required"`
}

// DocumentTemplate is the named set of extractable fields for one
// document type.
type DocumentTemplate struct {
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Fields      []FieldDefinition `json:"fields"`
	Examples    []string          `json:"examples"`
}

// GeneralCategory is the fallback template key for unknown categories.
const GeneralCategory = "general"

var templates = map[string]*DocumentTemplate{}

func init() {
	register(&DocumentTemplate{
		Name:        "passport",
		Category:    "passport",
		Description: "Machine-readable passport biographical page",
		Fields:      concat(personalFields, identificationFields),
		Examples: []string{
			"Surname: SMITH\nGiven Names: JOHN MICHAEL\nPassport No: A1234567\nNationality: INDIAN\nDate of Birth: 14 MAR 1985",
		},
	})
	register(&DocumentTemplate{
		Name:        "visa",
		Category:    "visa",
		Description: "U.S. visa foil or approval notice",
		Fields:      concat(personalFields, identificationFields, travelFields),
		Examples: []string{
			"VISA\nSurname: GARCIA\nGiven Name: MARIA\nVisa Type/Class: R B1/B2\nControl Number: 2021-AB-9876",
		},
	})
	register(&DocumentTemplate{
		Name:        "education",
		Category:    "education",
		Description: "Diploma, degree certificate or academic transcript",
		Fields:      concat(personalFields, educationFields),
		Examples: []string{
			"UNIVERSITY OF MUMBAI\nThis is to certify that JOHN SMITH has been awarded the degree of Bachelor of Engineering in Computer Science",
		},
	})
	register(&DocumentTemplate{
		Name:        "employment",
		Category:    "employment",
		Description: "Employment verification or offer letter",
		Fields:      concat(personalFields, employmentFields),
		Examples: []string{
			"To whom it may concern: this letter confirms that JOHN SMITH is employed by Tata Consultancy Services as Senior Software Engineer since 01 July 2018",
		},
	})
	register(&DocumentTemplate{
		Name:        "financial",
		Category:    "financial",
		Description: "Bank statement or proof of funds",
		Fields:      concat(personalFields, financialFields),
		Examples: []string{
			"STATE BANK OF INDIA\nAccount holder: JOHN SMITH\nClosing balance: INR 3,200,000\nStatement period: Jan 2024 - Jun 2024",
		},
	})
	register(&DocumentTemplate{
		Name:        "birth_certificate",
		Category:    "birth_certificate",
		Description: "Birth certificate",
		Fields:      concat(personalFields, addressFields),
		Examples: []string{
			"CERTIFICATE OF BIRTH\nName: JOHN MICHAEL SMITH\nDate of Birth: 14 March 1985\nPlace of Birth: Mumbai, Maharashtra",
		},
	})
	register(&DocumentTemplate{
		Name:        "marriage_certificate",
		Category:    "marriage_certificate",
		Description: "Marriage certificate",
		Fields:      concat(personalFields, addressFields),
		Examples: []string{
			"CERTIFICATE OF MARRIAGE\nThis certifies that JOHN SMITH and JANE DOE were united in marriage on 12 June 2015",
		},
	})

	// The general template unions every field group. Duplicate names across
	// groups are allowed here; the merge step keeps one field per name.
	register(&DocumentTemplate{
		Name:        "general",
		Category:    GeneralCategory,
		Description: "Generic immigration supporting document",
		Fields: concat(
			personalFields, identificationFields, contactFields, addressFields,
			employmentFields, educationFields, financialFields, travelFields,
		),
	})
}

func register(t *DocumentTemplate) {
	templates[t.Category] = t
}

// TemplateForCategory returns the template for a document category.
// Unknown categories resolve to the general template rather than failing.
func TemplateForCategory(category string) *DocumentTemplate {
	if t, ok := templates[category]; ok {
		return t
	}
	return templates[GeneralCategory]
}

// Categories returns the known template category keys.
func Categories() []string {
	out := make([]string, 0, len(templates))
	for k := range templates {
		out = append(out, k)
	}
	return out
}

func concat(groups ...[]FieldDefinition) []FieldDefinition {
	var out []FieldDefinition
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
