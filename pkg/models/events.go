package models

// Operation identifies the user mutation an event describes.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationDelete Operation = "delete"
)

// UserEvent is the broker payload published on create/delete. The wire
// format is exactly these two fields as a flat JSON object; correlation
// and message ids travel in AMQP properties, never in the body.
type UserEvent struct {
	Operation Operation `json:"operation"`
	Email     string    `json:"email"`
}

// Valid reports whether the event is well formed: a known operation and
// a non-empty email.
func (e UserEvent) Valid() bool {
	if e.Email == "" {
		return false
	}
	return e.Operation == OperationCreate || e.Operation == OperationDelete
}
