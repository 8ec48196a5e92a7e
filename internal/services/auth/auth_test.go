package services_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	customjwt "github.com/stockflowhq/stockflow-backend/internal/lib/jwt"
	"github.com/stockflowhq/stockflow-backend/internal/lib/password"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	"github.com/stockflowhq/stockflow-backend/internal/privileges"
	services "github.com/stockflowhq/stockflow-backend/internal/services/auth"
	"github.com/stockflowhq/stockflow-backend/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserFields(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.Claims), args.Error(1)
}

func activeUser(t *testing.T, username, rawPassword string) *models.User {
	t.Helper()
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	return &models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         privileges.RoleStaff,
		IsActive:     true,
		Status:       models.UserStatusActive,
	}
}

func TestAuthService_Login(t *testing.T) {
	user := activeUser(t, "warehouse1", "secret123")
	inactive := activeUser(t, "dormant", "secret123")
	inactive.IsActive = false

	tests := []struct {
		name      string
		username  string
		password  string
		mockUser  *models.User
		mockErr   error
		wantToken bool
		wantErr   error
	}{
		{
			name:      "valid credentials",
			username:  "warehouse1",
			password:  "secret123",
			mockUser:  user,
			wantToken: true,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "secret123",
			mockErr:  repository.ErrUserNotFound,
			wantErr:  services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "warehouse1",
			password: "not-the-password",
			mockUser: user,
			wantErr:  services.ErrInvalidCredentials,
		},
		{
			name:     "inactive user with correct password",
			username: "dormant",
			password: "secret123",
			mockUser: inactive,
			wantErr:  services.ErrInactiveUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := new(JwtMakerMock)
			svc := services.NewAuthService(repo, maker)

			repo.On("FindUserByUsername", mock.Anything, tt.username).
				Return(tt.mockUser, tt.mockErr).Once()
			if tt.wantToken {
				maker.On("GenerateToken", tt.mockUser.ID.Hex(), tt.mockUser.Role).
					Return("signed-token", nil).Once()
			}

			token, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "signed-token", token.AccessToken)
				assert.Equal(t, "bearer", token.TokenType)
			}
			repo.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_DuplicateChecksOrder(t *testing.T) {
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, new(JwtMakerMock))

	existing := activeUser(t, "taken", "whatever1")

	// Email проверяется первым: при совпадении и email, и username
	// клиент видит ошибку про email.
	repo.On("FindUserByEmail", mock.Anything, "taken@example.com").
		Return(existing, nil).Once()

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "taken",
		Email:    "taken@example.com",
		Password: "secret123",
		Role:     privileges.RoleStaff,
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	repo.AssertNotCalled(t, "FindUserByUsername", mock.Anything, mock.Anything)

	repo2 := new(UserRepoMock)
	svc2 := services.NewAuthService(repo2, new(JwtMakerMock))
	repo2.On("FindUserByEmail", mock.Anything, "fresh@example.com").
		Return(nil, repository.ErrUserNotFound).Once()
	repo2.On("FindUserByUsername", mock.Anything, "taken").
		Return(existing, nil).Once()

	_, err = svc2.Register(context.Background(), services.RegisterInput{
		Username: "taken",
		Email:    "fresh@example.com",
		Password: "secret123",
		Role:     privileges.RoleStaff,
	})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestAuthService_Register_DefaultsAndHashing(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		permissions []string
		wantPerms   []string
	}{
		{
			name:      "staff role gets staff defaults",
			role:      privileges.RoleStaff,
			wantPerms: privileges.Defaults(privileges.RoleStaff),
		},
		{
			name:      "unknown role gets empty defaults",
			role:      "warehouse-goblin",
			wantPerms: []string{},
		},
		{
			name:        "explicit permissions are kept as is",
			role:        privileges.RoleStaff,
			permissions: []string{privileges.InventoryRead},
			wantPerms:   []string{privileges.InventoryRead},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, new(JwtMakerMock))

			repo.On("FindUserByEmail", mock.Anything, mock.Anything).
				Return(nil, repository.ErrUserNotFound).Once()
			repo.On("FindUserByUsername", mock.Anything, mock.Anything).
				Return(nil, repository.ErrUserNotFound).Once()

			var inserted models.User
			repo.On("InsertUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
				inserted = u
				return true
			})).Return(&models.User{ID: primitive.NewObjectID()}, nil).Once()

			_, err := svc.Register(context.Background(), services.RegisterInput{
				Username:    "newuser",
				Email:       "newuser@example.com",
				Password:    "secret123",
				Role:        tt.role,
				Permissions: tt.permissions,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantPerms, inserted.Permissions)
			assert.Equal(t, models.UserStatusActive, inserted.Status)
			assert.True(t, inserted.IsActive)

			// Открытый пароль не сохраняется, хэш проверяем обратной проверкой.
			assert.NotEqual(t, "secret123", inserted.PasswordHash)
			assert.NoError(t, password.CompareHash(inserted.PasswordHash, "secret123"))
		})
	}
}

func TestAuthService_Register_UnknownPrivilegeRejected(t *testing.T) {
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, new(JwtMakerMock))

	repo.On("FindUserByEmail", mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound).Once()
	repo.On("FindUserByUsername", mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound).Once()

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Username:    "newuser",
		Email:       "newuser@example.com",
		Password:    "secret123",
		Role:        privileges.RoleStaff,
		Permissions: []string{"launch:rockets"},
	})
	assert.ErrorIs(t, err, services.ErrUnknownPrivilege)
	repo.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateRaceFromStore(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantErr  error
	}{
		{name: "email index violated", storeErr: repository.ErrDuplicateEmail, wantErr: services.ErrEmailTaken},
		{name: "username index violated", storeErr: repository.ErrDuplicateUsername, wantErr: services.ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, new(JwtMakerMock))

			repo.On("FindUserByEmail", mock.Anything, mock.Anything).
				Return(nil, repository.ErrUserNotFound).Once()
			repo.On("FindUserByUsername", mock.Anything, mock.Anything).
				Return(nil, repository.ErrUserNotFound).Once()
			repo.On("InsertUser", mock.Anything, mock.Anything).
				Return(nil, tt.storeErr).Once()

			_, err := svc.Register(context.Background(), services.RegisterInput{
				Username: "racer",
				Email:    "racer@example.com",
				Password: "secret123",
				Role:     privileges.RoleStaff,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_ListPrivileges(t *testing.T) {
	svc := services.NewAuthService(new(UserRepoMock), new(JwtMakerMock))

	got := svc.ListPrivileges()
	assert.Equal(t, privileges.All(), got)
	assert.NotEmpty(t, got)
}

func TestAuthService_UpdateSelf(t *testing.T) {
	current := activeUser(t, "editor", "oldpass1")

	t.Run("empty update is a no-op", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewAuthService(repo, new(JwtMakerMock))

		got, err := svc.UpdateSelf(context.Background(), current, models.UserUpdate{})
		require.NoError(t, err)
		assert.Same(t, current, got)
		repo.AssertNotCalled(t, "UpdateUserFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only phone changes only phone", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewAuthService(repo, new(JwtMakerMock))

		updated := *current
		updated.Phone = "+15550001122"
		repo.On("UpdateUserFields", mock.Anything, current.ID.Hex(),
			map[string]any{"phone": "+15550001122"}).
			Return(&updated, nil).Once()

		got, err := svc.UpdateSelf(context.Background(), current, models.UserUpdate{Phone: "+15550001122"})
		require.NoError(t, err)
		assert.Equal(t, "+15550001122", got.Phone)
		assert.Equal(t, current.PasswordHash, got.PasswordHash)
		assert.Equal(t, current.FullName, got.FullName)
		repo.AssertExpectations(t)
	})

	t.Run("password is rehashed before storage", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewAuthService(repo, new(JwtMakerMock))

		var sentFields map[string]any
		repo.On("UpdateUserFields", mock.Anything, current.ID.Hex(),
			mock.MatchedBy(func(fields map[string]any) bool {
				sentFields = fields
				return true
			})).
			Return(current, nil).Once()

		_, err := svc.UpdateSelf(context.Background(), current, models.UserUpdate{Password: "newpass99"})
		require.NoError(t, err)

		hash, ok := sentFields["hashed_password"].(string)
		require.True(t, ok)
		assert.NotEqual(t, "newpass99", hash)
		assert.NoError(t, password.CompareHash(hash, "newpass99"))
	})
}

func TestAuthService_ResolveUser(t *testing.T) {
	user := activeUser(t, "bearer", "secret123")

	t.Run("valid token resolves active user", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		svc := services.NewAuthService(repo, maker)

		maker.On("ParseToken", "tok").Return(&customjwt.Claims{
			Role:             user.Role,
			RegisteredClaims: jwtRegisteredClaims(user.ID.Hex()),
		}, nil).Once()
		repo.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil).Once()

		got, err := svc.ResolveUser(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("expired token", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		svc := services.NewAuthService(repo, maker)

		maker.On("ParseToken", "tok").Return(nil, customjwt.ErrExpiredToken).Once()

		_, err := svc.ResolveUser(context.Background(), "tok")
		assert.ErrorIs(t, err, customjwt.ErrExpiredToken)
	})

	t.Run("inactive user is rejected", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		svc := services.NewAuthService(repo, maker)

		inactive := *user
		inactive.IsActive = false

		maker.On("ParseToken", "tok").Return(&customjwt.Claims{
			RegisteredClaims: jwtRegisteredClaims(user.ID.Hex()),
		}, nil).Once()
		repo.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(&inactive, nil).Once()

		_, err := svc.ResolveUser(context.Background(), "tok")
		assert.ErrorIs(t, err, services.ErrInactiveUser)
	})

	t.Run("token subject without user", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		svc := services.NewAuthService(repo, maker)

		maker.On("ParseToken", "tok").Return(&customjwt.Claims{
			RegisteredClaims: jwtRegisteredClaims("64f1c0ffee0000000000dddd"),
		}, nil).Once()
		repo.On("FindUserByID", mock.Anything, "64f1c0ffee0000000000dddd").
			Return(nil, repository.ErrUserNotFound).Once()

		_, err := svc.ResolveUser(context.Background(), "tok")
		assert.ErrorIs(t, err, customjwt.ErrInvalidToken)
	})
}

func jwtRegisteredClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: subject}
}
