package bus

import "context"

// Keyer lo implementan los eventos que quieren enrutarse por clave de
// partición (aquí, el email del usuario).
type Keyer interface {
	PartitionKey() string
}

// EventBus publica eventos de integración. El topic y el formato del
// payload los fija cada adapter (Kafka, canal en memoria).
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}
