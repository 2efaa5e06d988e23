package directory

import "errors"

var (
	// ErrInvalidName is returned when the business name is empty
	ErrInvalidName = errors.New("business name is required")

	// ErrInvalidNumber is returned when the WhatsApp number is not in +<digits> form
	ErrInvalidNumber = errors.New("whatsapp number must start with +")

	// ErrNotFound is returned when no business exists for the given ID
	ErrNotFound = errors.New("business not found")
)
