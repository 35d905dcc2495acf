package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	SubmissionHandler *SubmissionHandler
	MeetingHandler    *MeetingHandler
	OptionHandler     *OptionHandler
	HealthHandler     *HealthHandler
}
