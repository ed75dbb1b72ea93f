package payload

type CreateQuestionRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"descp" validate:"required"`
	Question    string `json:"qn"    validate:"required"`
	Answer      string `json:"ans"   validate:"required"`
	Type        string `json:"type"  validate:"required,oneof=riddle quiz unscrambled binary"`
	Year        int    `json:"yr"    validate:"required,oneof=1 2"`
}

type CreateStegQuestionRequest struct {
	CreateQuestionRequest
	URL string `json:"url" validate:"required,url"`
}

// UpdateQuestionRequest only changes the fields that are present.
type UpdateQuestionRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"descp" validate:"omitempty,min=1"`
	Question    *string `json:"qn"    validate:"omitempty,min=1"`
	Answer      *string `json:"ans"   validate:"omitempty,min=1"`
	Type        *string `json:"type"  validate:"omitempty,oneof=riddle quiz unscrambled binary"`
	URL         *string `json:"url"   validate:"omitempty,url"`
	Year        *int    `json:"yr"    validate:"omitempty,oneof=1 2"`
}

type SubmitAnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"     validate:"required"`
}
