package events

import (
	"encoding/json"
	"time"
)

// Base de todos los eventos de integración que viajan por el bus.
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento

	// Key se usa como clave de partición en los adapters (no se serializa).
	Key string `json:"-"`
}

// PartitionKey permite que los adapters (ej. Kafka) enruten por clave.
func (e IntegrationEvent) PartitionKey() string {
	return e.Key
}

// NewIntegrationEvent serializa el payload y construye el sobre del evento.
func NewIntegrationEvent(eventType, key string, payload interface{}) (IntegrationEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return IntegrationEvent{}, err
	}
	return IntegrationEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Key:       key,
	}, nil
}
