package handlers

import (
	"errors"
	"net/http"

	"github.com/gelios02/HardwareStore/internal/service"
	"github.com/gelios02/HardwareStore/internal/storage"
)

// statusForError переводит ошибку ядра в HTTP-статус. Все ошибки ядра
// восстановимы для пользователя, поэтому отдаются как 4xx с причиной;
// всё незнакомое - generic 500 без деталей.
func statusForError(err error) int {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidInput),
		errors.As(err, &stockErr):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrProductNotFound),
		errors.Is(err, storage.ErrOrderNotFound),
		errors.Is(err, storage.ErrNotificationNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError прячет детали внутренних ошибок от клиента
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		http.Error(w, "internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
