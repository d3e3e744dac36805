package repository

import "context"

// Transactor выполняет fn атомарно. Репозитории, вызванные с переданным ctx,
// работают внутри той же транзакции. Ошибка из fn откатывает все изменения.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}
