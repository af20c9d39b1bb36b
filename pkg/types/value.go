// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	KindEntity      ValueKind = "entity"
	KindQuantity    ValueKind = "quantity"
	KindTime        ValueKind = "time"
	KindMonolingual ValueKind = "monolingualtext"
	KindString      ValueKind = "string"
	KindNoValue     ValueKind = "novalue"
	KindSomeValue   ValueKind = "somevalue"
)

// Precision follows the Wikibase time precision numbering so that
// precisions read back from the knowledge base compare directly.
type Precision int

const (
	PrecisionYear  Precision = 9
	PrecisionMonth Precision = 10
	PrecisionDay   Precision = 11
)

func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	default:
		return fmt.Sprintf("precision(%d)", int(p))
	}
}

// Date is a calendar date with an explicit precision. Month and Day are
// zero when the precision does not cover them.
type Date struct {
	Year      int       `json:"year" yaml:"year"`
	Month     int       `json:"month,omitempty" yaml:"month,omitempty"`
	Day       int       `json:"day,omitempty" yaml:"day,omitempty"`
	Precision Precision `json:"precision" yaml:"precision"`
}

// String renders the date at its precision, e.g. "1954" or "1999-12-01".
func (d Date) String() string {
	switch d.Precision {
	case PrecisionDay:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	case PrecisionMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d", d.Year)
	}
}

// Quantity is a plain integer amount with an optional unit entity.
type Quantity struct {
	Amount int64  `json:"amount" yaml:"amount"`
	Unit   string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// MonolingualText is a string tagged with a language code. Lang is never
// empty; unknown languages use "und".
type MonolingualText struct {
	Text string `json:"text" yaml:"text"`
	Lang string `json:"lang" yaml:"lang"`
}

// Value is the tagged union carried by a Statement. Exactly one of the
// variant fields is meaningful, selected by Kind. KindNoValue and
// KindSomeValue carry no payload.
type Value struct {
	Kind     ValueKind        `json:"kind" yaml:"kind"`
	Entity   string           `json:"entity,omitempty" yaml:"entity,omitempty"`
	Quantity *Quantity        `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Time     *Date            `json:"time,omitempty" yaml:"time,omitempty"`
	Text     *MonolingualText `json:"text,omitempty" yaml:"text,omitempty"`
	String   string           `json:"string,omitempty" yaml:"string,omitempty"`
}

// EntityValue wraps a knowledge base id.
func EntityValue(id string) Value { return Value{Kind: KindEntity, Entity: id} }

// StringValue wraps a plain string.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// TimeValue wraps a date.
func TimeValue(d Date) Value { return Value{Kind: KindTime, Time: &d} }

// QuantityValue wraps an integer amount with an optional unit.
func QuantityValue(amount int64, unit string) Value {
	return Value{Kind: KindQuantity, Quantity: &Quantity{Amount: amount, Unit: unit}}
}

// TextValue wraps a monolingual string.
func TextValue(text, lang string) Value {
	return Value{Kind: KindMonolingual, Text: &MonolingualText{Text: text, Lang: lang}}
}

// IsSpecial reports whether the value is a no-value or some-value marker.
func (v Value) IsSpecial() bool {
	return v.Kind == KindNoValue || v.Kind == KindSomeValue
}

// Display renders the payload for logs and reports.
func (v Value) Display() string {
	switch v.Kind {
	case KindEntity:
		return v.Entity
	case KindString:
		return v.String
	case KindQuantity:
		if v.Quantity == nil {
			return ""
		}
		return fmt.Sprintf("%d", v.Quantity.Amount)
	case KindTime:
		if v.Time == nil {
			return ""
		}
		return v.Time.String()
	case KindMonolingual:
		if v.Text == nil {
			return ""
		}
		return fmt.Sprintf("%s@%s", v.Text.Text, v.Text.Lang)
	default:
		return string(v.Kind)
	}
}
