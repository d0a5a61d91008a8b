package catalog

import (
	"fmt"
	"strings"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// QuestionInput is a question as typed by an author. CorrectIndex is a
// pointer so that "not chosen" can be told apart from option 0.
type QuestionInput struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
}

// ParseQuestions accepts either {"questions":[...]} or a bare array.
func ParseQuestions(body []byte) ([]QuestionInput, error) {
	var wrapped struct {
		Questions []QuestionInput `json:"questions"`
	}
	if err := sonic.Unmarshal(body, &wrapped); err == nil && wrapped.Questions != nil {
		return wrapped.Questions, nil
	}
	var list []QuestionInput
	if err := sonic.Unmarshal(body, &list); err != nil {
		return nil, apperrors.Validation("questions", "Failed to parse questions")
	}
	return list, nil
}

// ValidateQuestions trims and checks every question, stopping at the first
// problem.
func ValidateQuestions(in []QuestionInput) ([]models.Question, error) {
	out := make([]models.Question, 0, len(in))
	for i, q := range in {
		text := strings.TrimSpace(q.Text)
		opts := make([]string, len(q.Options))
		for j, o := range q.Options {
			opts[j] = strings.TrimSpace(o)
		}

		err := validate.Struct(struct {
			Text         string   `validate:"required"`
			Options      []string `validate:"len=4,dive,required"`
			CorrectIndex *int     `validate:"required,min=0,max=3"`
		}{
			Text:         text,
			Options:      opts,
			CorrectIndex: q.CorrectIndex,
		})
		if err != nil {
			return nil, questionError(i, err)
		}
		out = append(out, models.Question{Text: text, Options: opts, CorrectIndex: *q.CorrectIndex})
	}
	return out, nil
}

func questionError(i int, err error) error {
	field := fmt.Sprintf("questions[%d]", i)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return apperrors.Validation(field, err.Error())
	}
	switch name := verrs[0].StructField(); {
	case name == "Text":
		return apperrors.Validation(field+".text", "Question text is required.")
	case strings.HasPrefix(name, "Options"):
		return apperrors.Validation(field+".options", "All 4 options are required.")
	default:
		return apperrors.Validation(field+".correctIndex", "Choose the correct option.")
	}
}
