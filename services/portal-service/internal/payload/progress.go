package payload

type SubmitPuzzleRequest struct {
	Puzzle *int   `json:"puzzle" validate:"required,min=0"`
	Code   string `json:"code"   validate:"required,max=20000"`
}

type SubmitPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}
