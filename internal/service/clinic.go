package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"medlink.com/internal/constants"
	"medlink.com/internal/domain"
	"medlink.com/internal/model"
)

// ClinicServiceImpl implements domain.ClinicService with a Redis
// read-through cache for single-clinic lookups.
type ClinicServiceImpl struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewClinicService creates the clinic service. rdb may be nil, which
// disables caching (used by tests).
func NewClinicService(db *gorm.DB, rdb *redis.Client) *ClinicServiceImpl {
	return &ClinicServiceImpl{db: db, rdb: rdb}
}

func clinicCacheKey(id uint) string {
	return constants.RedisKeyClinicPrefix + strconv.FormatUint(uint64(id), 10)
}

// GetClinics returns a page of the clinic directory.
func (s *ClinicServiceImpl) GetClinics(ctx context.Context, page, pageSize int) ([]model.Clinic, int64, error) {
	var clinics []model.Clinic
	var total int64

	offset := (page - 1) * pageSize

	query := s.db.WithContext(ctx).Model(&model.Clinic{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count clinics", err)
	}
	if err := query.Order("name ASC").Limit(pageSize).Offset(offset).Find(&clinics).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch clinics", err)
	}
	return clinics, total, nil
}

// GetClinic returns one clinic, served from cache when possible.
func (s *ClinicServiceImpl) GetClinic(ctx context.Context, id uint) (*model.Clinic, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, clinicCacheKey(id)).Result(); err == nil {
			var clinic model.Clinic
			if err := json.Unmarshal([]byte(cached), &clinic); err == nil {
				return &clinic, nil
			}
		}
	}

	var clinic model.Clinic
	err := s.db.WithContext(ctx).First(&clinic, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Clinic not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch clinic", err)
	}

	s.cache(ctx, &clinic)
	return &clinic, nil
}

// CreateClinic persists a new clinic.
func (s *ClinicServiceImpl) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	if clinic.Name == "" {
		return domain.NewBadRequestError("Clinic name is required")
	}
	if err := s.db.WithContext(ctx).Create(clinic).Error; err != nil {
		return domain.NewInternalError("failed to create clinic", err)
	}
	return nil
}

// UpdateClinic applies updates and invalidates the cache entry.
func (s *ClinicServiceImpl) UpdateClinic(ctx context.Context, id uint, updates map[string]interface{}) (*model.Clinic, error) {
	var clinic model.Clinic
	err := s.db.WithContext(ctx).First(&clinic, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Clinic not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch clinic", err)
	}

	if err := s.db.WithContext(ctx).Model(&clinic).Updates(updates).Error; err != nil {
		return nil, domain.NewInternalError("failed to update clinic", err)
	}

	s.invalidate(ctx, id)
	return &clinic, nil
}

// DeleteClinic removes a clinic and invalidates the cache entry.
func (s *ClinicServiceImpl) DeleteClinic(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Clinic{}, id)
	if result.Error != nil {
		return domain.NewInternalError("failed to delete clinic", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Clinic not found")
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ClinicServiceImpl) cache(ctx context.Context, clinic *model.Clinic) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(clinic)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, clinicCacheKey(clinic.ID), data, constants.RedisClinicTTL).Err(); err != nil {
		log.Printf("ClinicService: failed to cache clinic %d: %v", clinic.ID, err)
	}
}

func (s *ClinicServiceImpl) invalidate(ctx context.Context, id uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, clinicCacheKey(id)).Err(); err != nil {
		log.Printf("ClinicService: failed to invalidate clinic %d: %v", id, err)
	}
}
