package domain

import "errors"

// Бизнес-ошибки ядра. Вызывающие стороны различают их через errors.Is
var (
	// ErrNotFound - запрошенная сущность отсутствует
	ErrNotFound = errors.New("not_found")
	// ErrInvalidArgument - некорректная дата, время или длительность
	ErrInvalidArgument = errors.New("invalid_argument")
	// ErrConflict - пересечение временных окон или проигрыш конкурентной записи
	ErrConflict = errors.New("conflict")
	// ErrBackendUnavailable - транспортная ошибка кэша, не выходит за пределы менеджера кэша
	ErrBackendUnavailable = errors.New("cache_backend_unavailable")
	// ErrStoreFailure - транспортная ошибка хранилища, фатальна для текущей операции
	ErrStoreFailure = errors.New("store_failure")
)
