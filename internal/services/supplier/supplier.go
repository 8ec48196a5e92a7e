// Package services содержит бизнес-логику для управления поставщиками
// и кеширования их списков.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// Время жизни кеша списка поставщиков.
const listCacheTTL = time.Hour

// SupplierRepository определяет методы для работы с поставщиками в хранилище.
type SupplierRepository interface {
	// InsertSupplier добавляет нового поставщика и возвращает запись с ID.
	InsertSupplier(ctx context.Context, supplier models.Supplier) (*models.Supplier, error)
	// FindSupplierByID возвращает поставщика по ID.
	FindSupplierByID(ctx context.Context, id string) (*models.Supplier, error)
	// ListSuppliers возвращает поставщиков организации.
	ListSuppliers(ctx context.Context, organizationID string) ([]models.Supplier, error)
	// UpdateSupplierFields применяет частичное обновление.
	UpdateSupplierFields(ctx context.Context, id string, fields map[string]any) (*models.Supplier, error)
	// DeleteSupplier удаляет поставщика по ID.
	DeleteSupplier(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// SupplierService реализует бизнес-логику работы с поставщиками.
type SupplierService struct {
	repo  SupplierRepository
	cache Cache
	log   *slog.Logger
}

// NewSupplierService создает новый экземпляр SupplierService.
func NewSupplierService(repo SupplierRepository, cache Cache, log *slog.Logger) *SupplierService {
	return &SupplierService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func listCacheKey(organizationID string) string {
	return fmt.Sprintf("suppliers:%s", organizationID)
}

// Create создает нового поставщика и инвалидирует кеш списка организации.
func (s *SupplierService) Create(ctx context.Context, supplier models.Supplier) (*models.Supplier, error) {
	if supplier.PaymentTerms == "" {
		supplier.PaymentTerms = models.PaymentTermsNet30
	}
	if supplier.Status == "" {
		supplier.Status = models.SupplierStatusActive
	}

	created, err := s.repo.InsertSupplier(ctx, supplier)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new supplier", slog.String("id", created.ID.Hex()))

	s.invalidateList(ctx, created.OrganizationID)
	return created, nil
}

// Read возвращает поставщика по ID.
func (s *SupplierService) Read(ctx context.Context, id string) (*models.Supplier, error) {
	return s.repo.FindSupplierByID(ctx, id)
}

// List возвращает поставщиков организации, используя кеш или репозиторий.
func (s *SupplierService) List(ctx context.Context, organizationID string) ([]models.Supplier, error) {
	cacheKey := listCacheKey(organizationID)

	var cached []models.Supplier
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read suppliers from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListSuppliers(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, result, listCacheTTL); err != nil {
		s.log.Warn("failed to cache suppliers", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update применяет частичное обновление поставщика: пустые строки и
// nil-указатели оставляют поле без изменений. Пустой набор полей — no-op,
// возвращающий текущую запись.
func (s *SupplierService) Update(ctx context.Context, id string, upd models.SupplierUpdate) (*models.Supplier, error) {
	fields := make(map[string]any)
	if upd.Name != "" {
		fields["name"] = upd.Name
	}
	if upd.ContactName != "" {
		fields["contact_name"] = upd.ContactName
	}
	if upd.Email != "" {
		fields["email"] = upd.Email
	}
	if upd.Phone != "" {
		fields["phone"] = upd.Phone
	}
	if upd.LocationID != "" {
		fields["location_id"] = upd.LocationID
	}
	if upd.PaymentTerms != "" {
		fields["payment_terms"] = upd.PaymentTerms
	}
	if upd.LeadTimeDays != nil {
		fields["lead_time_days"] = *upd.LeadTimeDays
	}
	if upd.Rating != nil {
		fields["rating"] = *upd.Rating
	}
	if upd.Status != "" {
		fields["status"] = upd.Status
	}
	if upd.Notes != "" {
		fields["notes"] = upd.Notes
	}

	if len(fields) == 0 {
		return s.repo.FindSupplierByID(ctx, id)
	}

	updated, err := s.repo.UpdateSupplierFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidateList(ctx, updated.OrganizationID)
	return updated, nil
}

// Remove удаляет поставщика и инвалидирует кеш списка его организации.
func (s *SupplierService) Remove(ctx context.Context, id string) error {
	supplier, err := s.repo.FindSupplierByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.invalidateList(ctx, supplier.OrganizationID)
	return nil
}

func (s *SupplierService) invalidateList(ctx context.Context, organizationID string) {
	cacheKey := listCacheKey(organizationID)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate suppliers cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
