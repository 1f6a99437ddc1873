package person

import (
	"fmt"
	"regexp"
	"strings"
)

// Field markers used in the encoded form.
const (
	PhonePrefix = "p/"
	EmailPrefix = "e/"
)

var markerPattern = regexp.MustCompile(regexp.QuoteMeta(PhonePrefix) + "|" + regexp.QuoteMeta(EmailPrefix))

// Encode renders p as "NAME p/PHONE e/EMAIL".
// Marker-like text inside Name is written as is and is not escaped.
func Encode(p Person) string {
	return fmt.Sprintf("%s %s%s %s%s", p.Name, PhonePrefix, p.Phone, EmailPrefix, p.Email)
}

// EncodeAll encodes each person in order.
func EncodeAll(persons []Person) []string {
	lines := make([]string, len(persons))
	for i, p := range persons {
		lines[i] = Encode(p)
	}
	return lines
}

// Decode parses a line produced by Encode. The phone and email fields may
// appear in either order, but each marker must occur exactly once and every
// segment must be non-empty. The decoded person must pass Validate.
func Decode(line string) (Person, error) {
	trimmed := strings.TrimSpace(line)

	segments := markerPattern.Split(trimmed, -1)
	if len(segments) != 3 {
		return Person{}, fmt.Errorf("%w: want one %s and one %s marker in %q", ErrMalformed, PhonePrefix, EmailPrefix, line)
	}
	for _, s := range segments {
		if s == "" {
			return Person{}, fmt.Errorf("%w: empty field in %q", ErrMalformed, line)
		}
	}

	phoneAt := strings.Index(trimmed, PhonePrefix)
	emailAt := strings.Index(trimmed, EmailPrefix)
	// Three segments from two of the same marker.
	if phoneAt < 0 || emailAt < 0 {
		return Person{}, fmt.Errorf("%w: want one %s and one %s marker in %q", ErrMalformed, PhonePrefix, EmailPrefix, line)
	}

	var phone, email string
	if phoneAt < emailAt {
		phone = fieldValue(trimmed[phoneAt:emailAt], PhonePrefix)
		email = fieldValue(trimmed[emailAt:], EmailPrefix)
	} else {
		email = fieldValue(trimmed[emailAt:phoneAt], EmailPrefix)
		phone = fieldValue(trimmed[phoneAt:], PhonePrefix)
	}
	name := strings.TrimSpace(trimmed[:min(phoneAt, emailAt)])

	p := New(name, phone, email)
	if err := Validate(p); err != nil {
		return Person{}, err
	}
	return p, nil
}

// fieldValue strips surrounding space and then the leading marker. Space
// between the marker and the value is kept, so "p/ 123" is not a valid phone.
func fieldValue(segment, marker string) string {
	return strings.TrimPrefix(strings.TrimSpace(segment), marker)
}

// DecodeAll decodes every line or none. The error names the first line
// (1-based) that failed.
func DecodeAll(lines []string) ([]Person, error) {
	persons := make([]Person, 0, len(lines))
	for i, line := range lines {
		p, err := Decode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		persons = append(persons, p)
	}
	return persons, nil
}
