package meals

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule identifies a violated resident input rule. The same identifiers are
// reported to the registration form and by the write path.
type Rule string

const (
	RuleNameInvalid      Rule = "name_invalid"
	RuleAdmissionInvalid Rule = "admission_invalid"
	RuleRoomInvalid      Rule = "room_invalid"
	RuleHostelInvalid    Rule = "hostel_invalid"
	RulePasswordTooShort Rule = "password_too_short"
	RulePasswordTooLong  Rule = "password_too_long"
	RulePasswordMismatch Rule = "password_mismatch"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 32
	// bcrypt refuses longer input, so multibyte passwords hit this before
	// MaxPasswordLength runes
	MaxPasswordBytes = 72
)

var admissionPattern = regexp.MustCompile(`^2[0-9]{5}$`)

// ResidentInput is a candidate resident record as typed into a form.
type ResidentInput struct {
	Name            string `json:"name" validate:"notblank"`
	Admission       string `json:"admission" validate:"admission"`
	Hostel          string `json:"hostel"`
	Room            string `json:"room" validate:"notblank,max=16"`
	Password        string `json:"password" validate:"min=6,max=32,hashable"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("admission", func(fl validator.FieldLevel) bool {
		return admissionPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("hashable", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

// ValidateResident returns every rule the input breaks, empty when the
// record is acceptable. hostels maps the known hostel ids to their names.
func ValidateResident(in ResidentInput, hostels map[string]string) []Rule {
	rules := []Rule{}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			// only reachable on a programming error in the struct tags
			panic(err)
		}
		for _, fe := range verrs {
			rules = append(rules, ruleFor(fe))
		}
	}
	if _, ok := hostels[in.Hostel]; !ok {
		rules = append(rules, RuleHostelInvalid)
	}
	return rules
}

// ValidatePassword checks a replacement password on its own.
func ValidatePassword(password string) []Rule {
	switch n := len([]rune(password)); {
	case n < MinPasswordLength:
		return []Rule{RulePasswordTooShort}
	case n > MaxPasswordLength, len(password) > MaxPasswordBytes:
		return []Rule{RulePasswordTooLong}
	}
	return nil
}

func ruleFor(fe validator.FieldError) Rule {
	switch fe.StructField() {
	case "Name":
		return RuleNameInvalid
	case "Admission":
		return RuleAdmissionInvalid
	case "Room":
		return RuleRoomInvalid
	case "Password":
		if fe.Tag() == "max" || fe.Tag() == "hashable" {
			return RulePasswordTooLong
		}
		return RulePasswordTooShort
	case "ConfirmPassword":
		return RulePasswordMismatch
	}
	return Rule(strings.ToLower(fe.StructField()) + "_invalid")
}

// Message returns the text shown next to a violated rule.
func (r Rule) Message() string {
	switch r {
	case RuleNameInvalid:
		return "Invalid name"
	case RuleAdmissionInvalid:
		return "Invalid admission number"
	case RuleRoomInvalid:
		return "Invalid room"
	case RuleHostelInvalid:
		return "Invalid hostel name"
	case RulePasswordTooShort:
		return "Password must be at least 6 characters long"
	case RulePasswordTooLong:
		return "Password must be at most 32 characters long"
	case RulePasswordMismatch:
		return "Passwords don't match"
	}
	return string(r)
}

// Messages maps rules to their display text.
func Messages(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Message()
	}
	return out
}
