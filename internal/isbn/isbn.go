// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package isbn validates and normalizes International Standard Book Numbers.
//
// Normalized ISBNs are compact: no separators, upper-case check digit. The
// compact form is what match indices and duplicate checks key on.
package isbn

import (
	"errors"
	"fmt"
	"strings"
)

// Format is the number of digits in an ISBN.
type Format int

const (
	ISBN10 Format = 10
	ISBN13 Format = 13
)

func (f Format) String() string {
	return fmt.Sprintf("ISBN-%d", int(f))
}

var (
	ErrFormat   = errors.New("invalid ISBN format")
	ErrChecksum = errors.New("invalid ISBN checksum")
)

// ISBN is a validated number in compact form.
type ISBN struct {
	Compact string
	Format  Format
}

// Compact strips an "ISBN" label, binding qualifiers such as "(inb.)",
// hyphens and spaces, and upper-cases the check digit. It does not validate.
func Compact(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	upper := strings.ToUpper(s)
	for _, prefix := range []string{"ISBN-13", "ISBN-10", "ISBN13", "ISBN10", "ISBN"} {
		if strings.HasPrefix(upper, prefix) {
			upper = upper[len(prefix):]
			break
		}
	}
	upper = strings.TrimLeft(upper, ": ")
	return strings.NewReplacer("-", "", " ", "", "‐", "", "‑", "").Replace(upper)
}

// Parse validates raw and returns its compact form and format.
func Parse(raw string) (ISBN, error) {
	c := Compact(raw)
	switch len(c) {
	case 10:
		if !digits(c[:9]) || !(isDigit(c[9]) || c[9] == 'X') {
			return ISBN{}, fmt.Errorf("%w: %q", ErrFormat, raw)
		}
		if checkDigit10(c[:9]) != c[9] {
			return ISBN{}, fmt.Errorf("%w: %q", ErrChecksum, raw)
		}
		return ISBN{Compact: c, Format: ISBN10}, nil
	case 13:
		if !digits(c) || !(strings.HasPrefix(c, "978") || strings.HasPrefix(c, "979")) {
			return ISBN{}, fmt.Errorf("%w: %q", ErrFormat, raw)
		}
		if checkDigit13(c[:12]) != c[12] {
			return ISBN{}, fmt.Errorf("%w: %q", ErrChecksum, raw)
		}
		return ISBN{Compact: c, Format: ISBN13}, nil
	default:
		return ISBN{}, fmt.Errorf("%w: %q", ErrFormat, raw)
	}
}

// Valid reports whether raw is a valid ISBN-10 or ISBN-13.
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

func checkDigit10(body string) byte {
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(body[i]-'0') * (10 - i)
	}
	d := (11 - sum%11) % 11
	if d == 10 {
		return 'X'
	}
	return byte('0' + d)
}

func checkDigit13(body string) byte {
	sum := 0
	for i := 0; i < 12; i++ {
		w := 1
		if i%2 == 1 {
			w = 3
		}
		sum += int(body[i]-'0') * w
	}
	return byte('0' + (10-sum%10)%10)
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
