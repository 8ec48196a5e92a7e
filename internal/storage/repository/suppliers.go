package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// InsertSupplier сохраняет нового поставщика и возвращает запись с присвоенным ID.
func (s *Storage) InsertSupplier(ctx context.Context, supplier models.Supplier) (*models.Supplier, error) {
	const op = "repository.InsertSupplier"

	now := time.Now().UTC()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	res, err := s.db.Collection(suppliersCollection).InsertOne(ctx, supplier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		supplier.ID = oid
	}
	return &supplier, nil
}

// FindSupplierByID возвращает поставщика по его идентификатору.
func (s *Storage) FindSupplierByID(ctx context.Context, id string) (*models.Supplier, error) {
	const op = "repository.FindSupplierByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrSupplierNotFound)
	}
	var supplier models.Supplier
	err = s.db.Collection(suppliersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrSupplierNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &supplier, nil
}

// ListSuppliers возвращает всех поставщиков организации,
// отсортированных по имени.
func (s *Storage) ListSuppliers(ctx context.Context, organizationID string) ([]models.Supplier, error) {
	const op = "repository.ListSuppliers"

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.db.Collection(suppliersCollection).
		Find(ctx, bson.M{"organization_id": organizationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var result []models.Supplier
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSupplierFields применяет частичное обновление $set к поставщику
// и возвращает обновлённую запись.
func (s *Storage) UpdateSupplierFields(ctx context.Context, id string, fields map[string]any) (*models.Supplier, error) {
	const op = "repository.UpdateSupplierFields"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrSupplierNotFound)
	}
	update := bson.M(fields)
	update["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var supplier models.Supplier
	err = s.db.Collection(suppliersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": update}, opts).
		Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrSupplierNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &supplier, nil
}

// DeleteSupplier удаляет поставщика по идентификатору.
func (s *Storage) DeleteSupplier(ctx context.Context, id string) error {
	const op = "repository.DeleteSupplier"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrSupplierNotFound)
	}
	res, err := s.db.Collection(suppliersCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrSupplierNotFound)
	}
	return nil
}
