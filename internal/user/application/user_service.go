package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/usermgmt/internal/shared/domain/events"
	sharedBus "github.com/davicafu/usermgmt/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/usermgmt/internal/shared/infra/platform/cache"
	"github.com/davicafu/usermgmt/internal/user/domain"
)

const defaultCacheTTL = 60 * time.Second

// UserService es la única autoridad sobre la mutación del almacén:
// aplica las invariantes de negocio (unicidad de email, existencia,
// rango válido) y delega la mutación en el UserStore.
type UserService struct {
	store    domain.UserStore
	cache    sharedCache.Cache
	events   sharedBus.EventBus
	age      *domain.AgeValidator
	ttlSecs  int
	log      *zap.Logger

	// mu serializa las secuencias comprobar-y-actuar (Contains + Put, etc.)
	// para que dos peticiones concurrentes sobre el mismo email no se crucen.
	mu sync.Mutex
}

// NewUserService constructor. cache y events pueden ser nil; el TTL viene
// de la configuración (cero o negativo aplica el valor por defecto).
func NewUserService(store domain.UserStore, cache sharedCache.Cache, events sharedBus.EventBus, age *domain.AgeValidator, cacheTTL time.Duration, log *zap.Logger) *UserService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &UserService{
		store:   store,
		cache:   cache,
		events:  events,
		age:     age,
		ttlSecs: int(cacheTTL.Seconds()),
		log:     log,
	}
}

func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		select {
		case <-time.After(delay):
			// espera antes del siguiente intento
		case <-ctx.Done():
			return ctx.Err() // contexto cancelado
		}
	}
	return err
}

// CreateUser valida la edad mínima, exige email libre e inserta el registro.
func (s *UserService) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := s.age.CheckForAge(u.BirthDate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.store.Contains(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateEmailError{Email: u.Email}
	}

	if err := s.store.Put(ctx, u.Email, u); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByEmail(u.Email), u, s.ttlSecs, s.log)
	s.publish(domain.UserCreated, u.Email, sharedEvents.UserCreated{
		EventID:   uuid.New(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate,
	})

	return u, nil
}

// UpdateUser aplica un merge parcial campo a campo sobre el registro
// almacenado bajo email. Si el patch trae un email distinto, el registro
// se re-indexa: se elimina la clave antigua y se inserta bajo la nueva,
// de forma atómica para cualquier otra operación.
func (s *UserService) UpdateUser(ctx context.Context, email string, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	merged := *current
	patch.ApplyTo(&merged)

	if merged.Email != email {
		// Re-key: la clave destino no puede estar ocupada por otro registro.
		taken, err := s.store.Contains(ctx, merged.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.DuplicateEmailError{Email: merged.Email}
		}
		if err := s.store.Remove(ctx, email); err != nil {
			return nil, err
		}
		sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByEmail(email), s.log)
	}

	if err := s.store.Put(ctx, merged.Email, &merged); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByEmail(merged.Email), &merged, s.ttlSecs, s.log)
	s.publish(domain.UserUpdated, merged.Email, sharedEvents.UserUpdated{
		EventID:   uuid.New(),
		OldEmail:  email,
		Email:     merged.Email,
		FirstName: merged.FirstName,
		LastName:  merged.LastName,
		BirthDate: merged.BirthDate,
	})

	return &merged, nil
}

// ReplaceUser sustituye íntegramente el registro almacenado bajo email
// por u, que queda indexado bajo u.Email (puede diferir del email del path).
func (s *UserService) ReplaceUser(ctx context.Context, email string, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.store.Contains(ctx, email)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	if u.Email != email {
		taken, err := s.store.Contains(ctx, u.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.DuplicateEmailError{Email: u.Email}
		}
	}

	if err := s.store.Remove(ctx, email); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, u.Email, u); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByEmail(email), s.log)
	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByEmail(u.Email), u, s.ttlSecs, s.log)
	s.publish(domain.UserReplaced, u.Email, sharedEvents.UserReplaced{
		EventID:   uuid.New(),
		OldEmail:  email,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate,
	})

	return u, nil
}

// DeleteUser elimina el registro; falla si el email no existe.
func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.store.Contains(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	if err := s.store.Remove(ctx, email); err != nil {
		return err
	}

	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByEmail(email), s.log)
	s.publish(domain.UserDeleted, email, sharedEvents.UserDeleted{
		EventID: uuid.New(),
		Email:   email,
	})

	return nil
}

// GetUser obtiene un usuario por email (primero intenta desde cache).
func (s *UserService) GetUser(ctx context.Context, email string) (*domain.User, error) {
	// 1. Intentar cache
	if s.cache != nil {
		var u domain.User
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByEmail(email), &u); ok {
			return &u, nil
		}
	}

	// 2. Ir al store con reintentos
	var user *domain.User
	var found bool
	err := retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		user, found, err = s.store.Get(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}

	// 3. Actualizar cache en background sin bloquear la respuesta
	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByEmail(email), user, s.ttlSecs, s.log)

	return user, nil
}

// FindUsersByBirthDateRange devuelve los usuarios cuya fecha de nacimiento
// cae en el rango inclusivo [from, to]. El orden del resultado no está
// especificado.
func (s *UserService) FindUsersByBirthDateRange(ctx context.Context, from, to time.Time) ([]*domain.User, error) {
	if from.After(to) {
		return nil, domain.NewValidationError("'From' date must be before 'To' date")
	}

	all, err := s.store.Values(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.User, 0, len(all))
	for _, u := range all {
		if !u.BirthDate.Before(from) && !u.BirthDate.After(to) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// publish emite el evento de integración en background: la mutación del
// almacén ya se confirmó y un bus caído no debe romper la operación.
func (s *UserService) publish(eventType, key string, payload interface{}) {
	if s.events == nil {
		return
	}

	evt, err := sharedEvents.NewIntegrationEvent(eventType, key, payload)
	if err != nil {
		s.log.Warn("Failed to build integration event", zap.String("type", eventType), zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.events.Publish(ctx, evt); err != nil {
			s.log.Warn("Failed to publish integration event",
				zap.String("type", eventType),
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}
