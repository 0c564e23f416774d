package mocks

import (
	"context"
	"encoding/json"
	"sync"

	sharedEvents "github.com/davicafu/usermgmt/internal/shared/domain/events"
	sharedBus "github.com/davicafu/usermgmt/internal/shared/infra/platform/bus"
	userDomain "github.com/davicafu/usermgmt/internal/user/domain"
)

// InMemoryUserStore simula el UserStore con un mapa, sin adornos.
type InMemoryUserStore struct {
	Users map[string]*userDomain.User
	mu    sync.Mutex
}

// Verificación estática
var _ userDomain.UserStore = (*InMemoryUserStore)(nil)

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		Users: make(map[string]*userDomain.User),
	}
}

func (r *InMemoryUserStore) Get(ctx context.Context, email string) (*userDomain.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[email]
	if !ok {
		return nil, false, nil
	}
	copied := *u
	return &copied, true, nil
}

func (r *InMemoryUserStore) Put(ctx context.Context, email string, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *u
	r.Users[email] = &copied
	return nil
}

func (r *InMemoryUserStore) Remove(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Users, email)
	return nil
}

func (r *InMemoryUserStore) Contains(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.Users[email]
	return ok, nil
}

func (r *InMemoryUserStore) Values(ctx context.Context) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*userDomain.User, 0, len(r.Users))
	for _, u := range r.Users {
		copied := *u
		list = append(list, &copied)
	}
	return list, nil
}

func (r *InMemoryUserStore) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Users)
}

// ------------------- EventPublisher -------------------

// MockPublisher captura los eventos de integración publicados.
// El servicio publica en background, así que los tests deben esperar
// (ej. assert.Eventually) antes de inspeccionar Events().
type MockPublisher struct {
	published []sharedEvents.IntegrationEvent
	mu        sync.Mutex
}

// Verificación estática
var _ sharedBus.EventBus = (*MockPublisher)(nil)

func (p *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var ie sharedEvents.IntegrationEvent
	if err := json.Unmarshal(data, &ie); err != nil {
		return err
	}

	// La clave de partición no viaja en el JSON; se recupera igual que
	// hace el publisher de Kafka.
	if keyer, ok := event.(sharedBus.Keyer); ok {
		ie.Key = keyer.PartitionKey()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, ie)
	return nil
}

func (p *MockPublisher) Events() []sharedEvents.IntegrationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sharedEvents.IntegrationEvent(nil), p.published...)
}

func (p *MockPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}
