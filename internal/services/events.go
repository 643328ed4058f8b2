package services

import "catalog/internal/models"

// Catalog event names published after successful mutations.
const (
	EventProductCreated          = "product.created"
	EventProductUpdated          = "product.updated"
	EventProductDeleted          = "product.deleted"
	EventProductOwnerTransferred = "product.owner_transferred"
)

// EventPublisher receives a notification after each committed mutation.
// Implemented by pkg/rabbitmq; a nil publisher disables events.
type EventPublisher interface {
	PublishProductEvent(event string, product *models.Product) error
}
