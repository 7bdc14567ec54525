package business

import (
	"net/http"
)

// ServiceError carries the wire level error tag and status for a
// failure the API reports cleanly. Tags are stable, clients match on
// them.
type ServiceError struct {
	Tag     string
	Message string
	Status  int
}

func (e *ServiceError) Error() string {
	return e.Tag
}

var (
	ErrCatalogueNotFound = &ServiceError{
		Tag: "catalogue_not_found", Message: "Catalogue not found", Status: http.StatusNotFound,
	}
	ErrFileNotFound = &ServiceError{
		Tag: "file_not_found", Message: "File not found on server", Status: http.StatusNotFound,
	}
	ErrProductNotFound = &ServiceError{
		Tag: "product_not_found", Message: "Product not found", Status: http.StatusNotFound,
	}
	ErrNoCataloguesFound = &ServiceError{
		Tag: "no_catalogues_found", Message: "No catalogues found for product", Status: http.StatusNotFound,
	}
	ErrValidationFailed = &ServiceError{
		Tag: "validation_failed", Message: "Validation failed", Status: http.StatusBadRequest,
	}
	ErrNoFile = &ServiceError{
		Tag: "no_file", Message: "No file uploaded", Status: http.StatusBadRequest,
	}
	ErrAlreadySubscribed = &ServiceError{
		Tag: "already_subscribed", Message: "Email is already subscribed to newsletter", Status: http.StatusBadRequest,
	}
	ErrInvalidToken = &ServiceError{
		Tag: "invalid_token", Message: "Invalid unsubscribe token", Status: http.StatusNotFound,
	}
	ErrSubscriberNotFound = &ServiceError{
		Tag: "subscriber_not_found", Message: "Subscriber not found", Status: http.StatusNotFound,
	}
)
