package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService       AuthService
	UserService       UserService
	SubmissionService SubmissionService
	MeetingService    MeetingService
	OptionService     OptionService
	HealthService     HealthService
}
