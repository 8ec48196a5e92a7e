// Package services содержит логику бизнес-уровня для работы
// с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stockflowhq/stockflow-backend/internal/lib/jwt"
	"github.com/stockflowhq/stockflow-backend/internal/lib/password"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	"github.com/stockflowhq/stockflow-backend/internal/privileges"
	"github.com/stockflowhq/stockflow-backend/internal/storage/repository"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrInvalidCredentials — пользователь не найден или пароль неверен.
	// Оба случая дают одну и ту же ошибку, чтобы не раскрывать
	// существование имени пользователя.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInactiveUser — пароль верен, но учётная запись деактивирована.
	ErrInactiveUser = errors.New("inactive user")
	// ErrEmailTaken — пользователь с таким email уже существует.
	ErrEmailTaken = errors.New("the user with this email already exists in the system")
	// ErrUsernameTaken — пользователь с таким username уже существует.
	ErrUsernameTaken = errors.New("the user with this username already exists in the system")
	// ErrUnknownPrivilege — в явно переданном наборе привилегий есть
	// тег вне перечня системы.
	ErrUnknownPrivilege = errors.New("unknown privilege tag")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// InsertUser сохраняет нового пользователя и возвращает запись с ID.
	InsertUser(ctx context.Context, user models.User) (*models.User, error)

	// FindUserByUsername возвращает пользователя по имени
	// или repository.ErrUserNotFound.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	// FindUserByEmail возвращает пользователя по email
	// или repository.ErrUserNotFound.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// FindUserByID возвращает пользователя по идентификатору.
	FindUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUserFields применяет частичное обновление и возвращает
	// обновлённую запись.
	UpdateUserFields(ctx context.Context, id string, fields map[string]any) (*models.User, error)
}

// Token — результат успешной аутентификации.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterInput — входные данные регистрации нового пользователя.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	FirstName   string
	LastName    string
	Phone       string
	Avatar      string
	Role        string
	Permissions []string
}

// AuthService отвечает за вход, регистрацию, выдачу привилегий
// и самообслуживание профиля.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет учетные данные пользователя и выпускает токен доступа.
//
// Отсутствующий пользователь и неверный пароль неразличимы для клиента:
// оба дают ErrInvalidCredentials. Верный пароль при деактивированной
// учётной записи даёт ErrInactiveUser.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*Token, error) {
	const op = "auth.Login"

	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	token, err := s.jwtMaker.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Token{AccessToken: token, TokenType: "bearer"}, nil
}

// Register создает нового пользователя.
//
// Email проверяется на уникальность первым, username — вторым. Пароль
// хэшируется на сервере, открытый пароль не сохраняется. Пустой набор
// привилегий заменяется набором по умолчанию для роли (неизвестная роль
// даёт пустой набор). Статус всегда active: самостоятельная регистрация
// не проходит через ожидание подтверждения.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "auth.Register"

	if _, err := s.users.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.users.FindUserByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	perms := in.Permissions
	if len(perms) == 0 {
		perms = privileges.Defaults(in.Role)
	} else {
		for _, p := range perms {
			if !privileges.IsKnown(p) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPrivilege, p)
			}
		}
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		FullName:     in.FullName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Avatar:       in.Avatar,
		Role:         in.Role,
		Permissions:  perms,
		IsActive:     true,
		Status:       models.UserStatusActive,
	}

	created, err := s.users.InsertUser(ctx, user)
	if err != nil {
		// Гонка двух конкурентных регистраций разрешается уникальным
		// индексом базы; второй insert приходит сюда.
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ListPrivileges возвращает полный перечень привилегий системы
// в порядке объявления. Без побочных эффектов.
func (s *AuthService) ListPrivileges() []string {
	return privileges.All()
}

// GetSelf возвращает запись самого пользователя. Разрешение вызывающего
// из токена — обязанность middleware аутентификации.
func (s *AuthService) GetSelf(currentUser *models.User) *models.User {
	return currentUser
}

// UpdateSelf применяет частичное обновление собственного профиля.
//
// Поле попадает в обновление только при непустом значении: пустая строка
// неотличима от "поле не передано" и оставляет атрибут без изменений.
// Пароль перед сохранением хэшируется. Пустой набор полей — no-op,
// возвращающий неизменённую запись.
func (s *AuthService) UpdateSelf(ctx context.Context, currentUser *models.User, upd models.UserUpdate) (*models.User, error) {
	const op = "auth.UpdateSelf"

	fields := make(map[string]any)
	if upd.Password != "" {
		hashed, err := password.GetHash(upd.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		fields["hashed_password"] = hashed
	}
	if upd.FullName != "" {
		fields["full_name"] = upd.FullName
	}
	if upd.FirstName != "" {
		fields["first_name"] = upd.FirstName
	}
	if upd.LastName != "" {
		fields["last_name"] = upd.LastName
	}
	if upd.Phone != "" {
		fields["phone"] = upd.Phone
	}
	if upd.Avatar != "" {
		fields["avatar"] = upd.Avatar
	}

	if len(fields) == 0 {
		return currentUser, nil
	}

	updated, err := s.users.UpdateUserFields(ctx, currentUser.ID.Hex(), fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// ResolveUser проверяет токен доступа и возвращает активного пользователя.
//
// Недействительный или истёкший токен пробрасывает ошибку jwt;
// деактивированная учётная запись даёт ErrInactiveUser.
func (s *AuthService) ResolveUser(ctx context.Context, tokenStr string) (*models.User, error) {
	const op = "auth.ResolveUser"

	claims, err := s.jwtMaker.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}
