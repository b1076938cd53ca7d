package validate

import (
	"errors"
	"fmt"
	"strings"

	"truthmines/internal/domain"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrParse indicates a node file or edge line that is not valid JSON.
	ErrParse = errors.New("parse error")

	// ErrSchema indicates a record that violates the structural schema.
	ErrSchema = errors.New("schema error")

	// ErrReferential indicates a dangling edge endpoint or a duplicate node id.
	ErrReferential = errors.New("referential error")

	// ErrVocabulary indicates a domain or relation outside the strict vocabulary.
	ErrVocabulary = errors.New("vocabulary error")
)

// Issue is an accumulated validation error with the place it was found
type Issue interface {
	error
	Loc() domain.Location
}

// StructuralParseError represents an input that could not be decoded.
// Wraps ErrParse for errors.Is() compatibility.
type StructuralParseError struct {
	Location domain.Location
	Err      error
}

func (e *StructuralParseError) Error() string {
	if e.Err == nil {
		return ErrParse.Error()
	}
	return fmt.Sprintf("%s: %v", ErrParse.Error(), e.Err)
}

func (e *StructuralParseError) Unwrap() error { return ErrParse }

func (e *StructuralParseError) Loc() domain.Location { return e.Location }

// SchemaViolation represents one structural schema failure.
// Wraps ErrSchema for errors.Is() compatibility.
type SchemaViolation struct {
	Location domain.Location
	Msg      string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchema.Error(), e.Msg)
}

func (e *SchemaViolation) Unwrap() error { return ErrSchema }

func (e *SchemaViolation) Loc() domain.Location { return e.Location }

// ReferentialError represents an id that does not resolve, or resolves twice.
// Wraps ErrReferential for errors.Is() compatibility.
type ReferentialError struct {
	Location domain.Location
	ID       string
	Msg      string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s: %s", ErrReferential.Error(), e.Msg)
}

func (e *ReferentialError) Unwrap() error { return ErrReferential }

func (e *ReferentialError) Loc() domain.Location { return e.Location }

// VocabularyError represents a value outside its strict-mode allow-set.
// Wraps ErrVocabulary for errors.Is() compatibility.
type VocabularyError struct {
	Location domain.Location
	Field    string // "domain" or "relation"
	Value    string
	Allowed  []string
}

func (e *VocabularyError) Error() string {
	return fmt.Sprintf("%s: %s %q is not one of [%s]",
		ErrVocabulary.Error(), e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *VocabularyError) Unwrap() error { return ErrVocabulary }

func (e *VocabularyError) Loc() domain.Location { return e.Location }
