package lead

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/projectzone/backend/core"
)

var (
	projectTypeTag  = "projecttype"
	projectTypeText = "invalid project type"

	educationLevelTag  = "educationlevel"
	educationLevelText = "invalid education level"

	fieldOfStudyTag  = "fieldofstudy"
	fieldOfStudyText = "invalid field of study"

	deadlineOptionTag  = "deadlineoption"
	deadlineOptionText = "invalid deadline"
)

// InitValidators registers the enum membership tags used by NewQuery.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterChoiceValidation(validate, translator, projectTypeTag, projectTypeText, ProjectTypes)
	core.RegisterChoiceValidation(validate, translator, educationLevelTag, educationLevelText, EducationLevels)
	core.RegisterChoiceValidation(validate, translator, fieldOfStudyTag, fieldOfStudyText, FieldsOfStudy)
	core.RegisterChoiceValidation(validate, translator, deadlineOptionTag, deadlineOptionText, DeadlineOptions)
}
