package impl

import (
	"context"
	"testing"

	"orderdesk/internal/cache"
	"orderdesk/internal/domain/entity"
	domainerrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/repository"
	mockRepo "orderdesk/internal/mocks/repository"
	mockSvc "orderdesk/internal/mocks/service"
	"orderdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service  usecase.UserUsecase
	userRepo *mockRepo.MockUserRepository
	hasher   *mockSvc.MockPasswordHasher
	mailer   *mockSvc.MockMailer
	store    *memoryStore
}

func createTestUserService(t *testing.T) userServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	mailer := mockSvc.NewMockMailer(t)
	store := newMemoryStore()
	logger := newDiscardLogger()

	service := NewUserService(UserServiceParams{
		UserRepo:    userRepo,
		Hasher:      hasher,
		CacheStore:  store,
		Mailer:      mailer,
		Invalidator: cache.NewInvalidator(store, logger),
		Config:      newTestConfig(),
		Logger:      logger,
	})

	return userServiceFixtures{
		service:  service,
		userRepo: userRepo,
		hasher:   hasher,
		mailer:   mailer,
		store:    store,
	}
}

func TestUserService_List_RequiresAdmin(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.List(context.Background(), freelancerPrincipal(uuid.New()), usecase.ListUsersInput{})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUserService_List_SecondReadServedFromCache(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	users := []*entity.User{
		{ID: uuid.New(), Email: "a@example.com"},
		{ID: uuid.New(), Email: "b@example.com"},
	}

	// The repository is consulted exactly once; the repeat hits the cache.
	fx.userRepo.On("PageSource", mock.AnythingOfType("repository.ListUsersQuery")).
		Return(sliceSource(users)).Once()

	input := usecase.ListUsersInput{Page: 1, PerPage: 20}

	first, err := fx.service.List(ctx, adminPrincipal(), input)
	require.NoError(t, err)
	assert.Len(t, first.Data, 2)
	assert.Equal(t, int64(2), first.Meta.Total)

	second, err := fx.service.List(ctx, adminPrincipal(), input)
	require.NoError(t, err)
	assert.Equal(t, first.Meta, second.Meta)
	assert.Len(t, second.Data, 2)
}

func TestUserService_Get_SelfOrAdmin(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Email: "ann@example.com"}
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	got, err := fx.service.Get(ctx, freelancerPrincipal(user.ID), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Another freelancer is rejected before any lookup happens.
	_, err = fx.service.Get(ctx, freelancerPrincipal(uuid.New()), user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUserService_Get_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	id := uuid.New()
	fx.userRepo.On("FindByID", ctx, id).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Get(ctx, adminPrincipal(), id)

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_Update_EmailChangeResetsVerification(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	verified := true
	user := &entity.User{ID: uuid.New(), Email: "old@example.com", IsEmailVerified: &verified}
	newEmail := "new@example.com"

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.userRepo.On("FindByEmail", ctx, newEmail).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	fx.mailer.On("SendVerificationCode", ctx, newEmail, mock.AnythingOfType("string")).Return(nil)

	updated, err := fx.service.Update(ctx, freelancerPrincipal(user.ID), user.ID, usecase.UpdateUserInput{
		Email: &newEmail,
	})

	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)
	require.NotNil(t, updated.IsEmailVerified)
	assert.False(t, *updated.IsEmailVerified)
	assert.True(t, fx.store.has(cache.VerifyKey(newEmail)))
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Email: "old@example.com"}
	other := &entity.User{ID: uuid.New(), Email: "new@example.com"}
	newEmail := other.Email

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.userRepo.On("FindByEmail", ctx, newEmail).Return(other, nil)

	_, err := fx.service.Update(ctx, adminPrincipal(), user.ID, usecase.UpdateUserInput{Email: &newEmail})

	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestUserService_Update_InvalidatesCachedDetail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Email: "ann@example.com", FirstName: "Ann"}
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	// Warm the detail cache.
	_, err := fx.service.Get(ctx, adminPrincipal(), user.ID)
	require.NoError(t, err)
	detailKey := cache.DetailKey(cache.UserDetailPrefix, user.ID)
	require.True(t, fx.store.has(detailKey))

	fx.userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	firstName := "Anna"
	_, err = fx.service.Update(ctx, adminPrincipal(), user.ID, usecase.UpdateUserInput{FirstName: &firstName})
	require.NoError(t, err)

	assert.False(t, fx.store.has(detailKey))
}

func TestUserService_ChangePassword(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Email: "ann@example.com", PasswordHash: "old-hash"}
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.hasher.On("Check", "old-password", "old-hash").Return(true)
	fx.hasher.On("Hash", "new-password").Return("new-hash", nil)
	fx.userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	err := fx.service.ChangePassword(ctx, freelancerPrincipal(user.ID), usecase.ChangePasswordInput{
		OldPassword: "old-password",
		NewPassword: "new-password",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.PasswordHash)
}

func TestUserService_ChangePassword_WrongOldPassword(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), PasswordHash: "old-hash"}
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.hasher.On("Check", "wrong", "old-hash").Return(false)

	err := fx.service.ChangePassword(ctx, freelancerPrincipal(user.ID), usecase.ChangePasswordInput{
		OldPassword: "wrong",
		NewPassword: "new-password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Delete_RequiresAdmin(t *testing.T) {
	fx := createTestUserService(t)

	err := fx.service.Delete(context.Background(), freelancerPrincipal(uuid.New()), uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUserService_Delete_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, fx.store.Set(ctx, cache.RefreshKey(id), "refresh-token", 0))
	fx.userRepo.On("Delete", ctx, id).Return(nil)

	err := fx.service.Delete(ctx, adminPrincipal(), id)

	require.NoError(t, err)
	assert.False(t, fx.store.has(cache.RefreshKey(id)))
}
