package course

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	courseCodeTag   = "coursecode"
	courseCodeText  = "course code must look like \"MATH-101\" or \"CS204\""
	courseCodeRegex = regexp.MustCompile(`^[A-Za-z]{2,8}-?\d{2,4}[A-Za-z]?$`)
)

func init() {
	_ = core.Validate.RegisterValidation(courseCodeTag, courseCodeValidation)
	core.RegisterCustomTranslation(courseCodeTag, courseCodeText)
}

func courseCodeValidation(fl validator.FieldLevel) bool {
	return courseCodeRegex.MatchString(fl.Field().String())
}
