package memory

import (
	"context"
	"sync"

	"github.com/davicafu/usermgmt/internal/user/domain"
)

// UserStore implementa el contrato de almacenamiento con un mapa en memoria
// indexado por email. Vive lo que vive el proceso: sin evicción, sin límite
// de tamaño y sin persistencia.
type UserStore struct {
	users map[string]domain.User
	mu    sync.RWMutex // RWMutex permite múltiples lectores o un solo escritor.
}

// Verificación estática
var _ domain.UserStore = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.User),
	}
}

// Get devuelve una copia del registro para que el llamante no pueda mutar
// el mapa por detrás.
func (s *UserStore) Get(ctx context.Context, email string) (*domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, false, nil
	}
	copied := u
	return &copied, true, nil
}

func (s *UserStore) Put(ctx context.Context, email string, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[email] = *u
	return nil
}

func (s *UserStore) Remove(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, email)
	return nil
}

func (s *UserStore) Contains(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[email]
	return ok, nil
}

func (s *UserStore) Values(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		copied := u
		list = append(list, &copied)
	}
	return list, nil
}

// Len devuelve el número de registros almacenados. Útil en tests.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}
