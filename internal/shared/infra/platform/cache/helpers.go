package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Las escrituras y borrados de caché son "dispara y olvida": corren en
// background sobre context.Background(), nunca sobre el contexto de la
// petición. Gin cancela ese contexto al devolver la respuesta y la caché
// debe actualizarse igualmente; si no, un borrado perdido deja la entrada
// vieja viva hasta el TTL. Un fallo de caché solo se loguea: no afecta a
// la semántica de la operación.
const asyncTimeout = 200 * time.Millisecond

// AsyncCacheSet actualiza la caché en background sin bloquear. Tolera cache nil.
func AsyncCacheSet(ctx context.Context, cache Cache, key string, value interface{}, ttl int, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := cache.Set(cacheCtx, key, value, ttl); err != nil {
			log.Warn("Cache update failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}

// AsyncCacheDelete invalida la clave en background sin bloquear. Tolera cache nil.
func AsyncCacheDelete(ctx context.Context, cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := cache.Delete(cacheCtx, key); err != nil {
			log.Warn("Cache deletion failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}
