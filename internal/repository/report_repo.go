package repository

import (
	"context"
	"errors"

	"go-pos-inventory/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByDate(ctx context.Context, date string, typ model.ReportType) (*model.Report, error)
	FindAll(ctx context.Context, limit int) ([]model.Report, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// FindByDate returns nil, nil when no report exists for the key.
func (r *reportRepo) FindByDate(ctx context.Context, date string, typ model.ReportType) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).Where("date = ? AND type = ?", date, typ).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) FindAll(ctx context.Context, limit int) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&reports).Error
	return reports, err
}
