package identity

import "github.com/marketplace/backend/internal/domain/shared"

// Errors shown verbatim to API clients
var (
	ErrShopsOnly         = shared.NewDomainError(shared.CodeForbidden, "Только для магазинов")
	ErrInvalidConfirm    = shared.NewDomainError(shared.CodeInvalidInput, "Неправильно указан токен или email")
	ErrLoginFailed       = shared.NewDomainError(shared.CodeInvalidInput, "Не удалось авторизовать")
	ErrInvalidResetToken = shared.NewDomainError(shared.CodeInvalidInput, "Неправильный или просроченный токен")
)
