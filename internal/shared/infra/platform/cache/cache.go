package cache

import "context"

// Cache es el puerto de caché clave-valor del servicio de usuarios.
// Es puramente consultiva: el almacén manda y una caché caída o
// desactualizada nunca cambia el resultado de una operación.
type Cache interface {
	// Get rellena dest (un puntero) con el valor de key.
	// (true, nil) en un hit; (false, nil) en un miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set serializa y guarda el valor con el TTL dado en segundos.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	// Delete invalida la clave; es un no-op si no existe.
	Delete(ctx context.Context, key string) error
}
