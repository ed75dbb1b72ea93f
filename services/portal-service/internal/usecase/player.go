package usecase

// Player is the authenticated caller of a round endpoint.
type Player struct {
	Email string
	Year  int
}
