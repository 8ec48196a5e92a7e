package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// InsertUser сохраняет нового пользователя и возвращает запись с присвоенным ID.
//
// Нарушение уникального индекса превращается в ErrDuplicateUsername
// или ErrDuplicateEmail в зависимости от индекса.
func (s *Storage) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "repository.InsertUser"

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := s.db.Collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		if dupErr := duplicateKeyError(err); dupErr != nil {
			return nil, fmt.Errorf("%s: %w", op, dupErr)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return &user, nil
}

// FindUserByUsername возвращает пользователя по его username.
func (s *Storage) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "repository.FindUserByUsername"
	return s.findUser(ctx, op, bson.M{"username": username})
}

// FindUserByEmail возвращает пользователя по его email.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.FindUserByEmail"
	return s.findUser(ctx, op, bson.M{"email": email})
}

// FindUserByID возвращает пользователя по его идентификатору.
func (s *Storage) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "repository.FindUserByID"
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return s.findUser(ctx, op, bson.M{"_id": oid})
}

func (s *Storage) findUser(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// UpdateUserFields применяет частичное обновление $set к пользователю
// и возвращает обновлённую запись.
func (s *Storage) UpdateUserFields(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	const op = "repository.UpdateUserFields"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	update := bson.M(fields)
	update["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err = s.db.Collection(usersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": update}, opts).
		Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// duplicateKeyError распознаёт нарушение уникального индекса и возвращает
// ошибку хранилища для конкретного поля, иначе nil.
func duplicateKeyError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	// Сообщение драйвера содержит имя нарушенного индекса.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email_1"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "username_1"):
		return ErrDuplicateUsername
	default:
		return err
	}
}
