package registration

import "errors"

var (
	// ErrRegistrationNotFound возвращается, когда запись на занятие не найдена
	ErrRegistrationNotFound = errors.New("registration.repository: registration not found")

	// ErrDuplicateRegistration возвращается при нарушении уникальности (занятие, участник)
	ErrDuplicateRegistration = errors.New("registration.repository: duplicate registration")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("registration.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("registration.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("registration.repository: failed to scan row")
)
