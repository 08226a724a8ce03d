package validator

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedVideoExtensions lists the accepted container formats
var AllowedVideoExtensions = []string{"mp4", "avi", "mov", "mkv", "webm", "m4v"}

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("videoext", func(fl validator.FieldLevel) bool {
		return IsAllowedVideo(fl.Field().String())
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// IsAllowedVideo reports whether the file name carries an accepted video extension
func IsAllowedVideo(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range AllowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
