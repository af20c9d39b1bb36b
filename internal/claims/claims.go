// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package claims turns extracted field values into statements on a
// CanonicalItem.
//
// A Builder is created once per source record. It carries the record's
// working language and the one Reference every referenced statement of
// that record shares. Property names are domain keys ("isbn_13",
// "date_of_birth") checked against the properties table.
package claims

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Special value sentinels.
const (
	NoValue   = "novalue"
	SomeValue = "somevalue"
)

// AppliesToPartKey is the properties-table key of the qualifier.
const AppliesToPartKey = "applies_to_part"

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrPartialDate     = errors.New("partial date")
	ErrInvalidValue    = errors.New("invalid value")
)

var entityPattern = regexp.MustCompile(`(?i)^Q[0-9]+$`)

// IsEntityID reports whether s looks like a knowledge base item id.
func IsEntityID(s string) bool {
	return entityPattern.MatchString(strings.TrimSpace(s))
}

// NewDate builds a date from its parts. A year alone has year precision
// and a full date day precision. A month without a day, or a day without a
// month, is rejected instead of guessed.
func NewDate(year, month, day int) (types.Date, error) {
	switch {
	case month == 0 && day == 0:
		return types.Date{Year: year, Precision: types.PrecisionYear}, nil
	case month == 0 || day == 0:
		return types.Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrPartialDate, year, month, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return types.Date{}, fmt.Errorf("%w: %04d-%02d-%02d is not a calendar date", ErrInvalidValue, year, month, day)
	}
	return types.Date{Year: year, Month: month, Day: day, Precision: types.PrecisionDay}, nil
}

// DateOf converts a timestamp to a day-precision date.
func DateOf(t time.Time) types.Date {
	return types.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Precision: types.PrecisionDay}
}

func checkDate(d types.Date) error {
	switch d.Precision {
	case types.PrecisionYear:
		if d.Month != 0 || d.Day != 0 {
			return fmt.Errorf("%w: year-precision date %s carries month or day", ErrInvalidValue, d)
		}
		return nil
	case types.PrecisionDay:
		_, err := NewDate(d.Year, d.Month, d.Day)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrPartialDate, d)
	}
}

// Coerce converts a raw field value to a statement value. Strings that look
// like item ids become entity references and the sentinels "novalue" and
// "somevalue" become special values; other strings stay plain strings.
// Integers become unitless quantities.
func Coerce(raw any) (types.Value, error) {
	switch v := raw.(type) {
	case types.Value:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		switch {
		case s == "":
			return types.Value{}, fmt.Errorf("%w: empty string", ErrInvalidValue)
		case s == NoValue:
			return types.Value{Kind: types.KindNoValue}, nil
		case s == SomeValue:
			return types.Value{Kind: types.KindSomeValue}, nil
		case IsEntityID(s):
			return types.EntityValue(strings.ToUpper(s)), nil
		default:
			return types.StringValue(s), nil
		}
	case int:
		return types.QuantityValue(int64(v), ""), nil
	case int64:
		return types.QuantityValue(v, ""), nil
	case types.Date:
		if err := checkDate(v); err != nil {
			return types.Value{}, err
		}
		return types.TimeValue(v), nil
	case types.MonolingualText:
		if v.Lang == "" {
			v.Lang = "und"
		}
		return types.TextValue(v.Text, v.Lang), nil
	default:
		return types.Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, raw)
	}
}

// NewReference builds the provenance shared by the statements of one record.
func NewReference(statedIn string, published *types.Date, url string, retrieved time.Time) *types.Reference {
	return &types.Reference{
		StatedIn:        statedIn,
		PublicationDate: published,
		URL:             url,
		Retrieved:       DateOf(retrieved),
	}
}

// Builder adds statements to items.
type Builder struct {
	properties mapping.Table
	reference  *types.Reference
	language   string
}

// NewBuilder returns a builder for one record. An empty language becomes
// "und".
func NewBuilder(properties mapping.Table, ref *types.Reference, language string) *Builder {
	if language == "" {
		language = "und"
	}
	return &Builder{properties: properties, reference: ref, language: language}
}

// Language returns the working language of the record.
func (b *Builder) Language() string { return b.language }

// Reference returns the shared reference.
func (b *Builder) Reference() *types.Reference { return b.reference }

func (b *Builder) checkProperty(prop string) error {
	if _, ok := b.properties.Lookup(prop); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, prop)
	}
	return nil
}

// Identity adds the statement that ties the item to its own source record.
// It carries no reference.
func (b *Builder) Identity(item *types.CanonicalItem, prop, value string) error {
	if err := b.checkProperty(prop); err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: empty identity value", ErrInvalidValue)
	}
	item.AddStatement(types.Statement{Property: prop, Value: types.StringValue(value)})
	return nil
}

// Add coerces raw and adds it as a referenced statement.
func (b *Builder) Add(item *types.CanonicalItem, prop string, raw any, quals ...types.Qualifier) error {
	if err := b.checkProperty(prop); err != nil {
		return err
	}
	v, err := Coerce(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", prop, err)
	}
	item.AddStatement(types.Statement{
		Property:   prop,
		Value:      v,
		Qualifiers: quals,
		Reference:  b.reference,
	})
	return nil
}

// AddText adds a monolingual text in the working language.
func (b *Builder) AddText(item *types.CanonicalItem, prop, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%s: %w: empty text", prop, ErrInvalidValue)
	}
	return b.Add(item, prop, types.TextValue(text, b.language))
}

// AddDate adds a time value after checking its precision.
func (b *Builder) AddDate(item *types.CanonicalItem, prop string, d types.Date) error {
	return b.Add(item, prop, d)
}

// AddQuantity adds an amount. The unit is left out unless given.
func (b *Builder) AddQuantity(item *types.CanonicalItem, prop string, amount int64, unit string) error {
	return b.Add(item, prop, types.QuantityValue(amount, unit))
}

// AddEntity adds a reference to another item.
func (b *Builder) AddEntity(item *types.CanonicalItem, prop, id string, quals ...types.Qualifier) error {
	if !IsEntityID(id) {
		return fmt.Errorf("%s: %w: %q is not an item id", prop, ErrInvalidValue, id)
	}
	return b.Add(item, prop, id, quals...)
}

// AppliesToPart returns the qualifier restricting a statement to part of
// the item.
func (b *Builder) AppliesToPart(part string) (types.Qualifier, error) {
	if err := b.checkProperty(AppliesToPartKey); err != nil {
		return types.Qualifier{}, err
	}
	if !IsEntityID(part) {
		return types.Qualifier{}, fmt.Errorf("%w: part %q is not an item id", ErrInvalidValue, part)
	}
	return types.Qualifier{Property: AppliesToPartKey, Value: types.EntityValue(strings.ToUpper(part))}, nil
}
