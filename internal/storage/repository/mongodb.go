// Package repository реализует хранилище данных на основе MongoDB
// для управления пользователями и поставщиками. Уникальность username
// и email обеспечивается уникальными индексами на уровне базы,
// поэтому гонка двух конкурентных регистраций разрешается самой базой.
package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stockflowhq/stockflow-backend/internal/config"
)

// Имена коллекций.
const (
	usersCollection     = "users"
	suppliersCollection = "suppliers"
)

// Storage инкапсулирует соединение с MongoDB и реализует
// методы работы с пользователями и поставщиками.
type Storage struct {
	client *mongo.Client
	db     *mongo.Database
}

// New создаёт подключение к MongoDB и инициализирует необходимые индексы.
func New(ctx context.Context, cfg config.MongoConnection) (*Storage, error) {
	const op = "repository.New"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		client: client,
		db:     client.Database(cfg.MongoDBName),
	}
	if err = s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// ensureIndexes создаёт уникальные индексы users.username и users.email
// и индекс suppliers.organization_id.
func (s *Storage) ensureIndexes(ctx context.Context) error {
	users := s.db.Collection(usersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
	})
	if err != nil {
		return err
	}

	suppliers := s.db.Collection(suppliersCollection)
	_, err = suppliers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "organization_id", Value: 1}},
		Options: options.Index().SetName("organization_id_1"),
	})
	return err
}

// Close закрывает соединение с базой.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("database is not ready: %w", err)
	}
	return nil
}
