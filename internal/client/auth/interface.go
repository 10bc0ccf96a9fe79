package auth

import (
	"context"
)

//go:generate moq -out service_mock.go . Service

// Service управляет сессией backend.
// Токен выдается управляемым backend (BaaS), клиент только хранит его
// и прикладывает к запросам синхронизации.
type Service interface {
	// SignIn сохраняет bearer токен как текущую сессию
	// Срок действия и пользователь читаются из claims JWT без проверки подписи
	SignIn(ctx context.Context, token string) (*Session, error)

	// Current возвращает текущую сессию
	// Возвращает ErrNotSignedIn, если сессии нет, и ErrSessionExpired, если срок истек
	Current(ctx context.Context) (*Session, error)

	// IsAuthenticated сообщает, есть ли действующая сессия
	IsAuthenticated(ctx context.Context) (bool, error)

	// SignOut удаляет сессию и все локальные данные пользователя:
	// снимок кэша, офлайн-очередь и реплики документов
	SignOut(ctx context.Context) error
}
