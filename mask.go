package converters

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
)

// MaskType represents a known data format with masking rules.
type MaskType string

const (
	MaskSSN   MaskType = "ssn"   // 123-45-6789 -> ***-**-6789
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskPhone MaskType = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  MaskType = "card"  // 4111111111111111 -> ************1111
	MaskIP    MaskType = "ip"    // 192.168.1.100 -> 192.168.xxx.xxx
	MaskUUID  MaskType = "uuid"  // 550e8400-e29b-41d4-a716-446655440000 -> 550e8400-****-****-****-************
	MaskIBAN  MaskType = "iban"  // GB82WEST12345698765432 -> GB82**************5432
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)

// Masker applies content-aware masking to a rendered string.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to the Masker interface.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

// SSNMasker keeps the last four digits of a Social Security Number.
func SSNMasker() Masker {
	return MaskerFunc(func(value string) string {
		last4, ok := lastDigits(value, 4)
		if !ok {
			return stars(len(value))
		}
		return "***-**-" + last4
	})
}

// EmailMasker keeps the first character of the local part and the whole domain.
func EmailMasker() Masker {
	return MaskerFunc(func(value string) string {
		at := strings.LastIndex(value, "@")
		if at < 1 {
			return stars(len(value))
		}
		return value[:1] + "***" + value[at:]
	})
}

// PhoneMasker keeps the last four digits and the shape of common formats.
func PhoneMasker() Masker {
	return MaskerFunc(func(value string) string {
		last4, ok := lastDigits(value, 4)
		if !ok {
			return stars(len(value))
		}
		n := len(digitsOf(value))
		switch {
		case n >= 10 && strings.HasPrefix(value, "("):
			return "(***) ***-" + last4
		case n >= 10:
			return "***-***-" + last4
		default:
			return "***-" + last4
		}
	})
}

// CardMasker keeps the last four digits of a card number, preserving space or
// dash grouping.
func CardMasker() Masker {
	return MaskerFunc(func(value string) string {
		last4, ok := lastDigits(value, 4)
		if !ok {
			return stars(len(value))
		}
		hidden := len(digitsOf(value)) - 4
		for _, sep := range []string{" ", "-"} {
			if strings.Contains(value, sep) {
				groups := make([]string, (hidden+3)/4, (hidden+3)/4+1)
				for i := range groups {
					groups[i] = "****"
				}
				return strings.Join(append(groups, last4), sep)
			}
		}
		return stars(hidden) + last4
	})
}

// IPMasker keeps the network half of an address.
// IPv4 keeps two octets, IPv6 keeps the /64 prefix.
func IPMasker() Masker {
	return MaskerFunc(func(value string) string {
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return stars(len(value))
		}
		if addr.Is4() {
			b := addr.As4()
			return fmt.Sprintf("%d.%d.xxx.xxx", b[0], b[1])
		}
		groups := strings.Split(addr.StringExpanded(), ":")
		return strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx"
	})
}

// UUIDMasker keeps the first segment of a UUID.
func UUIDMasker() Masker {
	return MaskerFunc(func(value string) string {
		parts := strings.Split(value, "-")
		if len(parts) != 5 {
			return stars(len(value))
		}
		return parts[0] + "-****-****-****-************"
	})
}

// IBANMasker keeps the country code, check digits and the last four characters.
func IBANMasker() Masker {
	return MaskerFunc(func(value string) string {
		if len(value) <= 8 {
			return stars(len(value))
		}
		return value[:4] + stars(len(value)-8) + value[len(value)-4:]
	})
}

// NameMasker keeps the first letter of every word.
func NameMasker() Masker {
	return MaskerFunc(func(value string) string {
		words := strings.Fields(value)
		for i, w := range words {
			r := []rune(w)
			words[i] = string(r[0]) + stars(len(r)-1)
		}
		return strings.Join(words, " ")
	})
}

func stars(n int) string {
	return strings.Repeat("*", n)
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// lastDigits returns the last n digits of s, or false if s has fewer.
func lastDigits(s string, n int) (string, bool) {
	d := digitsOf(s)
	if len(d) < n {
		return "", false
	}
	return d[len(d)-n:], true
}

// builtinMaskers returns the default masker registry.
func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskSSN:   SSNMasker(),
		MaskEmail: EmailMasker(),
		MaskPhone: PhoneMasker(),
		MaskCard:  CardMasker(),
		MaskIP:    IPMasker(),
		MaskUUID:  UUIDMasker(),
		MaskIBAN:  IBANMasker(),
		MaskName:  NameMasker(),
	}
}
