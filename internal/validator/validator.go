// Package validator provides a Validator type for accumulating field-level
// validation errors, plus the format rules shared by the request types.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var (
	// UserIDRX is the loose email shape used for customer user ids:
	// something, "@", something, ".", something. It is a search, not an
	// anchored match.
	UserIDRX = regexp.MustCompile(`\S+@\S+\.\S+`)

	// PriceRX accepts a non-negative integer or decimal with at most two
	// fractional digits. No sign, no exponent.
	PriceRX = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// USStates holds the 50 two-letter US state codes. Territories are not
// included.
var USStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// Struct rules live in two tags so that presence can be checked on every
// field before any format rule runs:
//
//	Price PriceText `json:"price" validate:"required" format:"price"`
//
// A playground.Validate caches struct metadata and is safe for concurrent
// use, so one instance per tag is shared.
var (
	presence = newStructValidator("validate")
	formats  = newStructValidator("format")
)

func newStructValidator(tag string) *playground.Validate {
	v := playground.New()
	v.SetTagName(tag)

	// Report fields by their JSON name so messages match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("price", func(fl playground.FieldLevel) bool {
		return Matches(fl.Field().String(), PriceRX)
	})
	_ = v.RegisterValidation("userid", func(fl playground.FieldLevel) bool {
		return Matches(fl.Field().String(), UserIDRX)
	})
	_ = v.RegisterValidation("usstate", func(fl playground.FieldLevel) bool {
		return IsUSState(fl.Field().String())
	})

	return v
}

// Failure is one recorded error: the field, the rule it broke ("" for
// errors added through Check or AddError) and the detail message.
type Failure struct {
	Field   string
	Rule    string
	Message string
}

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string

	// keys remembers the order errors were added in, so the first failure
	// can be reported on its own.
	keys  []string
	rules map[string]string

	// summary, when set, replaces the per-field text in Message.
	summary string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{
		Errors: make(map[string]string),
		rules:  make(map[string]string),
	}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	v.add(key, "", message)
}

func (v *Validator) add(key, rule, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.rules[key] = rule
		v.keys = append(v.keys, key)
	}
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(len(title) > 0, "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Struct checks presence on every field of s, then the format rules.
func (v *Validator) Struct(s any) {
	v.Presence(s)
	v.Format(s)
}

// Presence applies the `validate` tags on s.
func (v *Validator) Presence(s any) {
	v.run(presence, s)
}

// Format applies the `format` tags on s. A field that already failed
// presence keeps that error.
func (v *Validator) Format(s any) {
	v.run(formats, s)
}

// run records one error per failing field, in field declaration order.
func (v *Validator) run(pv *playground.Validate, s any) {
	err := pv.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: s was not a struct. That is a programming
		// error, but it still must not let the input through.
		v.add("body", "", "is invalid")
		return
	}

	for _, fe := range fieldErrs {
		v.add(fe.Field(), fe.Tag(), friendlyMessage(fe))
	}
}

// First returns the earliest recorded failure.
func (v *Validator) First() (Failure, bool) {
	if len(v.keys) == 0 {
		return Failure{}, false
	}
	key := v.keys[0]
	return Failure{Field: key, Rule: v.rules[key], Message: v.Errors[key]}, true
}

// Summarize sets the text Message returns in place of the per-field detail.
// It has no effect on a valid Validator.
func (v *Validator) Summarize(message string) {
	if !v.Valid() {
		v.summary = message
	}
}

// Message is the client-facing description of the failure: the summary if
// one was set, otherwise the first field and its rule, e.g. "price must be a
// valid number with at most 2 decimal places". It returns "" for a valid
// Validator.
func (v *Validator) Message() string {
	f, ok := v.First()
	if !ok {
		return ""
	}
	if v.summary != "" {
		return v.summary
	}
	return f.Field + " " + f.Message
}

func friendlyMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "price":
		return "must be a valid number with at most 2 decimal places"
	case "userid":
		return "must be a valid email address"
	case "usstate":
		return "must be a valid two-letter US state code"
	default:
		return "is invalid"
	}
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}

// Matches returns true if value matches the provided compiled regexp.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// IsUSState reports whether s is one of the 50 state codes, ignoring case.
func IsUSState(s string) bool {
	return In(strings.ToUpper(s), USStates...)
}
