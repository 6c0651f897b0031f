package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"medlink.com/internal/domain"
	"medlink.com/internal/model"
)

// RecordServiceImpl implements domain.RecordService.
type RecordServiceImpl struct {
	db *gorm.DB
}

// NewRecordService creates the record service.
func NewRecordService(db *gorm.DB) *RecordServiceImpl {
	return &RecordServiceImpl{db: db}
}

// GetRecords returns a page of records visible to the caller. Patients
// only see their own rows; clinical roles see all.
func (s *RecordServiceImpl) GetRecords(ctx context.Context, userID, role string, page, pageSize int) ([]model.MedicalRecord, int64, error) {
	var records []model.MedicalRecord
	var total int64

	offset := (page - 1) * pageSize

	query := s.db.WithContext(ctx).Model(&model.MedicalRecord{})
	if role == model.RolePatient {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count records", err)
	}
	if err := query.Order("date DESC").Limit(pageSize).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch records", err)
	}
	return records, total, nil
}

// GetRecord returns one record, enforcing the ownership scope for
// patient callers.
func (s *RecordServiceImpl) GetRecord(ctx context.Context, id uint, userID, role string) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	err := s.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Record not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch record", err)
	}
	if role == model.RolePatient && record.UserID != userID {
		return nil, domain.NewForbiddenError("Not allowed to view this record")
	}
	return &record, nil
}

// CreateRecord persists a new record.
func (s *RecordServiceImpl) CreateRecord(ctx context.Context, record *model.MedicalRecord) error {
	if record.UserID == "" || record.PatientName == "" {
		return domain.NewBadRequestError("userId and patientName are required")
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return domain.NewInternalError("failed to create record", err)
	}
	return nil
}

// UpdateRecord applies updates to an existing record.
func (s *RecordServiceImpl) UpdateRecord(ctx context.Context, id uint, updates map[string]interface{}) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	err := s.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Record not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch record", err)
	}

	if err := s.db.WithContext(ctx).Model(&record).Updates(updates).Error; err != nil {
		return nil, domain.NewInternalError("failed to update record", err)
	}
	return &record, nil
}

// DeleteRecord removes a record.
func (s *RecordServiceImpl) DeleteRecord(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.MedicalRecord{}, id)
	if result.Error != nil {
		return domain.NewInternalError("failed to delete record", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Record not found")
	}
	return nil
}
