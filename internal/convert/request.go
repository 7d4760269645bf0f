package convert

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/jo-hoe/goresize/internal/format"
)

const (
	MinDimension = 1
	MaxDimension = 9999
)

// Request describes a single conversion
type Request struct {
	SourcePath string        `json:"sourcePath" yaml:"sourcePath"`
	Width      int           `json:"width" yaml:"width" validate:"min=1,max=9999"`
	Height     int           `json:"height" yaml:"height" validate:"min=1,max=9999"`
	Format     format.Format `json:"format" yaml:"format"`
}

var requestValidator = validator.New()

// Validate checks the caller-side preconditions of a request
func (r Request) Validate() error {
	if strings.TrimSpace(r.SourcePath) == "" {
		return ErrNoFileSelected
	}
	if err := requestValidator.Struct(r); err != nil {
		return newError(KindInvalidRequest, "", describeValidation(err))
	}
	if r.Format.IsZero() {
		return newError(KindInvalidRequest, "", fmt.Errorf("output format is required"))
	}
	return nil
}

func describeValidation(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s must be between %d and %d, got %v",
			strings.ToLower(fe.Field()), MinDimension, MaxDimension, fe.Value()))
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}
