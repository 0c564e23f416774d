package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/usermgmt/internal/shared/infra/platform/bus"
	"github.com/davicafu/usermgmt/internal/user/domain"
	"github.com/davicafu/usermgmt/tests/mocks"
)

func newService(store *mocks.InMemoryUserStore, events sharedBus.EventBus) *UserService {
	return NewUserService(store, mocks.NewDummyCache(), events, domain.NewAgeValidator(18), time.Minute, zap.NewNop())
}

func adultUser(email string) *domain.User {
	return &domain.User{
		Email:       email,
		FirstName:   "John",
		LastName:    "Doe",
		BirthDate:   time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		Address:     "123 Street",
		PhoneNumber: "1234567890",
	}
}

func strPtr(s string) *string { return &s }

// -------------------- CreateUser --------------------

func TestCreateUser_Success(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	events := &mocks.MockPublisher{}
	service := newService(store, events)

	user, err := service.CreateUser(context.Background(), adultUser("test@example.com"))
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, 1, store.Len())

	// ✅ El evento se publica en background
	assert.Eventually(t, func() bool { return events.Count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, domain.UserCreated, events.Events()[0].Type)
	assert.Equal(t, "test@example.com", events.Events()[0].Key)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, err := service.CreateUser(context.Background(), adultUser("dup@example.com"))
	assert.NoError(t, err)

	_, err = service.CreateUser(context.Background(), adultUser("dup@example.com"))

	var dupErr *domain.DuplicateEmailError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "User with email dup@example.com already exists.", err.Error())

	// El almacén no crece
	assert.Equal(t, 1, store.Len())
}

func TestCreateUser_Underage(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	minor := adultUser("kid@example.com")
	minor.BirthDate = time.Now().UTC().AddDate(-10, 0, 0)

	_, err := service.CreateUser(context.Background(), minor)

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "User must be at least 18 years old", err.Error())
	assert.Equal(t, 0, store.Len())
}

// -------------------- UpdateUser --------------------

func TestUpdateUser_NotFound(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, err := service.UpdateUser(context.Background(), "nonexistent@example.com", domain.UserPatch{
		FirstName: strPtr("Jane"),
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestUpdateUser_PartialMerge(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	original, _ := service.CreateUser(context.Background(), adultUser("merge@example.com"))

	merged, err := service.UpdateUser(context.Background(), "merge@example.com", domain.UserPatch{
		FirstName: strPtr("Jane"),
		Address:   strPtr("456 Lane"),
	})
	assert.NoError(t, err)

	// Solo los campos presentes se sobrescriben
	assert.Equal(t, "Jane", merged.FirstName)
	assert.Equal(t, "456 Lane", merged.Address)
	assert.Equal(t, original.LastName, merged.LastName)
	assert.Equal(t, original.BirthDate, merged.BirthDate)
	assert.Equal(t, original.PhoneNumber, merged.PhoneNumber)

	stored, ok, _ := store.Get(context.Background(), "merge@example.com")
	assert.True(t, ok)
	assert.Equal(t, *merged, *stored)
}

func TestUpdateUser_Rekey(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, _ = service.CreateUser(context.Background(), adultUser("old@example.com"))

	merged, err := service.UpdateUser(context.Background(), "old@example.com", domain.UserPatch{
		Email:     strPtr("new@example.com"),
		FirstName: strPtr("Jane"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", merged.Email)

	// Invariante de re-key: la clave antigua desaparece y la nueva
	// contiene el registro fusionado.
	ok, _ := store.Contains(context.Background(), "old@example.com")
	assert.False(t, ok)

	stored, ok, _ := store.Get(context.Background(), "new@example.com")
	assert.True(t, ok)
	assert.Equal(t, "Jane", stored.FirstName)
	assert.Equal(t, "Doe", stored.LastName)
	assert.Equal(t, 1, store.Len())
}

func TestUpdateUser_RekeySobreEmailOcupado(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, _ = service.CreateUser(context.Background(), adultUser("a@example.com"))
	_, _ = service.CreateUser(context.Background(), adultUser("b@example.com"))

	// Re-key hacia una clave ocupada por otro registro: se rechaza en vez
	// de sobrescribir silenciosamente.
	_, err := service.UpdateUser(context.Background(), "a@example.com", domain.UserPatch{
		Email: strPtr("b@example.com"),
	})

	var dupErr *domain.DuplicateEmailError
	assert.ErrorAs(t, err, &dupErr)

	// Ambos registros siguen intactos
	assert.Equal(t, 2, store.Len())
	ok, _ := store.Contains(context.Background(), "a@example.com")
	assert.True(t, ok)
}

// -------------------- ReplaceUser --------------------

func TestReplaceUser_Success(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	events := &mocks.MockPublisher{}
	service := newService(store, events)

	_, _ = service.CreateUser(context.Background(), adultUser("old@example.com"))

	replacement := &domain.User{
		Email:     "new@example.com",
		FirstName: "Jane",
		LastName:  "Smith",
		BirthDate: time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC),
	}

	replaced, err := service.ReplaceUser(context.Background(), "old@example.com", replacement)
	assert.NoError(t, err)
	assert.Equal(t, replacement, replaced)

	// Sustitución íntegra: los campos opcionales no sobreviven
	ok, _ := store.Contains(context.Background(), "old@example.com")
	assert.False(t, ok)

	stored, ok, _ := store.Get(context.Background(), "new@example.com")
	assert.True(t, ok)
	assert.Equal(t, "", stored.Address)
	assert.Equal(t, "Smith", stored.LastName)
}

func TestReplaceUser_NotFound(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, err := service.ReplaceUser(context.Background(), "nonexistent@example.com", adultUser("x@example.com"))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestReplaceUser_RekeySobreEmailOcupado(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, _ = service.CreateUser(context.Background(), adultUser("a@example.com"))
	_, _ = service.CreateUser(context.Background(), adultUser("b@example.com"))

	replacement := adultUser("b@example.com")
	_, err := service.ReplaceUser(context.Background(), "a@example.com", replacement)

	var dupErr *domain.DuplicateEmailError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, 2, store.Len())
}

// -------------------- DeleteUser --------------------

func TestDeleteUser_Success(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	events := &mocks.MockPublisher{}
	service := newService(store, events)

	_, _ = service.CreateUser(context.Background(), adultUser("delete@example.com"))

	err := service.DeleteUser(context.Background(), "delete@example.com")
	assert.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	assert.Eventually(t, func() bool { return events.Count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestDeleteUser_NotFound(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	err := service.DeleteUser(context.Background(), "nonexistent@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// -------------------- Coherencia de cache --------------------

func TestDeleteUser_InvalidaCacheConContextoCancelado(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	cache := mocks.NewStrictCache()
	service := NewUserService(store, cache, nil, domain.NewAgeValidator(18), time.Minute, zap.NewNop())

	_, err := service.CreateUser(context.Background(), adultUser("stale@example.com"))
	assert.NoError(t, err)

	key := domain.CacheKeyByEmail("stale@example.com")
	assert.Eventually(t, func() bool { return cache.Contains(key) }, time.Second, 10*time.Millisecond)

	// Gin cancela el contexto de la petición al responder; la invalidación
	// de cache no puede depender de él.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, service.DeleteUser(ctx, "stale@example.com"))
	assert.Equal(t, 0, store.Len())

	assert.Eventually(t, func() bool { return !cache.Contains(key) }, time.Second, 10*time.Millisecond)

	_, err = service.GetUser(context.Background(), "stale@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateUser_RekeyInvalidaClaveAntiguaConContextoCancelado(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	cache := mocks.NewStrictCache()
	service := NewUserService(store, cache, nil, domain.NewAgeValidator(18), time.Minute, zap.NewNop())

	_, err := service.CreateUser(context.Background(), adultUser("old@example.com"))
	assert.NoError(t, err)

	oldKey := domain.CacheKeyByEmail("old@example.com")
	assert.Eventually(t, func() bool { return cache.Contains(oldKey) }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.UpdateUser(ctx, "old@example.com", domain.UserPatch{
		Email: strPtr("new@example.com"),
	})
	assert.NoError(t, err)

	// La clave antigua no puede seguir sirviendo al usuario re-indexado
	assert.Eventually(t, func() bool { return !cache.Contains(oldKey) }, time.Second, 10*time.Millisecond)

	_, err = service.GetUser(context.Background(), "old@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateUser_EscribeCacheConTTLConfigurado(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	cache := mocks.NewDummyCache()
	service := NewUserService(store, cache, nil, domain.NewAgeValidator(18), 90*time.Second, zap.NewNop())

	_, err := service.CreateUser(context.Background(), adultUser("ttl@example.com"))
	assert.NoError(t, err)

	key := domain.CacheKeyByEmail("ttl@example.com")
	assert.Eventually(t, func() bool { return cache.Contains(key) }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 90, cache.LastTTL())
}

// -------------------- GetUser --------------------

func TestGetUser_NotFound(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, err := service.GetUser(context.Background(), "nonexistent@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUser_CacheHit(t *testing.T) {
	cache := mocks.NewDummyCache()
	cached := adultUser("cache@example.com")
	cache.SetForTest(domain.CacheKeyByEmail(cached.Email), cached)

	// El store está vacío: si responde, vino de la cache
	service := NewUserService(mocks.NewInMemoryUserStore(), cache, nil, domain.NewAgeValidator(18), time.Minute, zap.NewNop())

	u, err := service.GetUser(context.Background(), "cache@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "cache@example.com", u.Email)
	assert.Equal(t, "John", u.FirstName)
}

func TestGetUser_CacheMiss(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, _ = service.CreateUser(context.Background(), adultUser("miss@example.com"))

	u, err := service.GetUser(context.Background(), "miss@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "miss@example.com", u.Email)
}

// ----------------- FindUsersByBirthDateRange -----------------

func TestFindUsersByBirthDateRange(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	u1 := adultUser("user1@example.com")
	u1.BirthDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	u2 := adultUser("user2@example.com")
	u2.BirthDate = time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC)
	_, _ = service.CreateUser(context.Background(), u1)
	_, _ = service.CreateUser(context.Background(), u2)

	results, err := service.FindUsersByBirthDateRange(
		context.Background(),
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFindUsersByBirthDateRange_RangoInclusivo(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	u := adultUser("edge@example.com")
	u.BirthDate = time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC)
	_, _ = service.CreateUser(context.Background(), u)

	// Los extremos del rango cuentan
	results, err := service.FindUsersByBirthDateRange(context.Background(), u.BirthDate, u.BirthDate)
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	// Fuera del rango por un día
	results, err = service.FindUsersByBirthDateRange(
		context.Background(),
		u.BirthDate.AddDate(0, 0, 1),
		u.BirthDate.AddDate(0, 0, 2),
	)
	assert.NoError(t, err)
	assert.Len(t, results, 0)
}

func TestFindUsersByBirthDateRange_RangoInvalido(t *testing.T) {
	store := mocks.NewInMemoryUserStore()
	service := newService(store, nil)

	_, err := service.FindUsersByBirthDateRange(
		context.Background(),
		time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
	)

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "'From' date must be before 'To' date", err.Error())
}
