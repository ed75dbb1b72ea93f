package payload

type CreateAnswerKeyRequest struct {
	Answer []string `json:"answer" validate:"required,min=1,dive,required"`
	Year   int      `json:"yr"     validate:"required,oneof=1 2"`
}

type UpdateAnswerKeyRequest struct {
	Answer []string `json:"answer" validate:"required,min=1,dive,required"`
}

type SubmitRoundThreeRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type SubmitRoundThreeResponse struct {
	Success   bool   `json:"success"`
	IsCorrect bool   `json:"isCorrect"`
	Message   string `json:"message"`
}
