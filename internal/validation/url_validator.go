package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/veranemoloko/vreddit-downloader/internal/quality"
	"github.com/veranemoloko/vreddit-downloader/internal/resolver"
)

var validate = New()

// New returns a validator with the vreddit_url and quality_policy tags registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("vreddit_url", validateVRedditURL)
	_ = v.RegisterValidation("quality_policy", validateQualityPolicy)
	return v
}

// ValidateURL reports whether raw is a direct v.redd.it link or a reddit post link.
func ValidateURL(raw string) error {
	if err := validate.Var(raw, "required,vreddit_url"); err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	return nil
}

func validateVRedditURL(fl validator.FieldLevel) bool {
	return resolver.IsSupported(fl.Field().String())
}

func validateQualityPolicy(fl validator.FieldLevel) bool {
	_, err := quality.Parse(fl.Field().String())
	return err == nil
}
