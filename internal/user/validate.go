package user

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// AllowedEmailDomains is the fixed set of domains accepted for user emails.
var AllowedEmailDomains = []string{"gmail.com", "hotmail.com", "outlook.com", "yahoo.com", "live.com"}

var phonePattern = regexp.MustCompile(`^[1-9][0-9]{9}$`)

var (
	msgNameBlank     = "El nombre no puede estar vacío"
	msgNameTooLong   = "El nombre no puede superar los 120 caracteres"
	msgEmailInvalid  = "El email no es válido"
	msgEmailTooLong  = "El email no puede superar los 120 caracteres"
	msgEmailPattern  = emailPatternMessage()
	msgPhone         = "El teléfono debe tener 10 dígitos numéricos y no puede iniciar con 0"
	msgWebsiteLong   = "El sitio web no puede superar los 120 caracteres"
	msgGender        = "El género debe ser uno de: female, male, other"
	msgBirthFormat   = "La fecha de nacimiento debe tener formato AAAA-MM-DD"
	msgBirthNotPast  = "La fecha de nacimiento debe ser anterior a la fecha actual"
	msgOtherRequired = "Debe especificar el género cuando selecciona \"other\""
	msgOtherTooLong  = "El género especificado no puede superar los 120 caracteres"
)

func emailPatternMessage() string {
	domains := make([]string, len(AllowedEmailDomains))
	copy(domains, AllowedEmailDomains)
	sort.Strings(domains)
	return "El email debe comenzar con letra o número y terminar en: " + strings.Join(domains, ", ")
}

// FieldError is a validation failure scoped to a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field errors across a whole payload. At most
// one error per field is reported.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, fe := range ve {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// NormalizeName trims the raw value and normalizes casing: the whole string
// lowercased, then the first rune uppercased. Blank names are rejected.
func NormalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fieldErr(msgNameBlank)
	}
	if utf8.RuneCountInString(trimmed) > 120 {
		return "", fieldErr(msgNameTooLong)
	}
	lower := strings.ToLower(trimmed)
	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(first)) + lower[size:], nil
}

// NormalizeEmail lowercases and trims the raw value, checks it is a bare
// syntactically valid address whose local part starts with a letter or
// digit, and restricts the domain to AllowedEmailDomains.
func NormalizeEmail(raw string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if norm == "" {
		return "", fieldErr(msgEmailInvalid)
	}
	if len(norm) > 120 {
		return "", fieldErr(msgEmailTooLong)
	}
	addr, err := mail.ParseAddress(norm)
	if err != nil || addr.Address != norm {
		return "", fieldErr(msgEmailInvalid)
	}
	local, domain, _ := strings.Cut(norm, "@")
	if local == "" || !isAlphanumeric(rune(local[0])) {
		return "", fieldErr(msgEmailPattern)
	}
	for _, allowed := range AllowedEmailDomains {
		if domain == allowed {
			return norm, nil
		}
	}
	return "", fieldErr(msgEmailPattern)
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// ValidatePhone accepts exactly 10 digits with a non-zero first digit. The
// value is returned unchanged.
func ValidatePhone(raw string) (string, error) {
	if !phonePattern.MatchString(raw) {
		return "", fieldErr(msgPhone)
	}
	return raw, nil
}

// ValidateWebsite applies the length cap; no format validation.
func ValidateWebsite(raw string) (string, error) {
	if utf8.RuneCountInString(raw) > 120 {
		return "", fieldErr(msgWebsiteLong)
	}
	return raw, nil
}

// ValidateGender accepts one of the enum values.
func ValidateGender(raw string) (string, error) {
	switch raw {
	case GenderFemale, GenderMale, GenderOther:
		return raw, nil
	}
	return "", fieldErr(msgGender)
}

// ValidateBirthdate parses an AAAA-MM-DD value and requires it to be
// strictly before today, evaluated at call time.
func ValidateBirthdate(raw string) (Date, error) {
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, fieldErr(msgBirthFormat)
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !d.Before(today) {
		return Date{}, fieldErr(msgBirthNotPast)
	}
	return d, nil
}

// ResolveGenderOther applies the cross-field rule: when gender is "other"
// the free-form value is required (trimmed, non-blank); for any other
// gender the result is forced to nil even if the caller supplied a value.
func ResolveGenderOther(gender string, rawOther *string) (*string, error) {
	if gender != GenderOther {
		return nil, nil
	}
	if rawOther == nil {
		return nil, fieldErr(msgOtherRequired)
	}
	trimmed := strings.TrimSpace(*rawOther)
	if trimmed == "" {
		return nil, fieldErr(msgOtherRequired)
	}
	if utf8.RuneCountInString(trimmed) > 120 {
		return nil, fieldErr(msgOtherTooLong)
	}
	return &trimmed, nil
}

type fieldErr string

func (e fieldErr) Error() string { return string(e) }
