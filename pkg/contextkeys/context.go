package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// AuthUserKey - *dto.AuthIdentity, кладет RequireAuth
	AuthUserKey = contextKey("authUser")

	// TokenHashKey - хэш предъявленного bearer-токена
	TokenHashKey = contextKey("authTokenHash")
)
