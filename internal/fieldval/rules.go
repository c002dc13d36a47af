package fieldval

import (
	"regexp"
	"strings"
	"time"
)

// rule is one format check keyed by exact field name. A field with no rule
// passes the format check by default.
type rule struct {
	check      func(value string) bool
	issue      string
	suggestion string
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,9}$`)
	visaPattern     = regexp.MustCompile(`^[A-Z0-9-]{8,12}$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z .'-]+$`)
	postalPattern   = regexp.MustCompile(`^[A-Za-z0-9 -]{3,10}$`)
	nonDigits       = regexp.MustCompile(`\D`)
)

var nameRule = rule{
	check: func(v string) bool {
		return len(strings.TrimSpace(v)) >= 2 && namePattern.MatchString(v)
	},
	issue:      "Invalid name format",
	suggestion: "Names may contain only letters, spaces, hyphens, apostrophes and periods",
}

var rules = map[string]rule{
	"email": {
		check:      emailPattern.MatchString,
		issue:      "Invalid email format",
		suggestion: "Expected an address like name@example.com with an @ and a domain",
	},
	"phone": {
		check: func(v string) bool {
			n := len(nonDigits.ReplaceAllString(v, ""))
			return n >= 10 && n <= 15
		},
		issue:      "Invalid phone number",
		suggestion: "Phone numbers should contain 10 to 15 digits including the country code",
	},
	"date_of_birth": {
		check: func(v string) bool {
			t, err := parseDate(v)
			return err == nil && t.Before(time.Now())
		},
		issue:      "Invalid date of birth",
		suggestion: "Date of birth must be a parseable calendar date in the past",
	},
	"passport_number": {
		check:      passportPattern.MatchString,
		issue:      "Invalid passport number format",
		suggestion: "Passport numbers are 6 to 9 uppercase letters and digits",
	},
	"visa_number": {
		check:      visaPattern.MatchString,
		issue:      "Invalid visa number format",
		suggestion: "Visa numbers are 8 to 12 uppercase letters, digits and hyphens",
	},
	"full_name":  nameRule,
	"first_name": nameRule,
	"last_name":  nameRule,
	"postal_code": {
		check:      postalPattern.MatchString,
		issue:      "Invalid postal code format",
		suggestion: "Postal codes are 3 to 10 letters, digits, spaces or hyphens",
	},
}

var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2 January 2006",
	"02 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

// parseDate tries common document date formats.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
