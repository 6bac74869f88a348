package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type paymentRepository interface {
	ListByTeacher(ctx context.Context, teacherID string, filter models.PaymentFilter) ([]models.PaymentDetail, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
}

type paymentStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// PaymentService manages the payment ledger.
type PaymentService struct {
	repo      paymentRepository
	students  paymentStudentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(repo paymentRepository, students paymentStudentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{repo: repo, students: students, cache: cache, validator: validate, logger: logger}
}

// List returns the teacher's payments, filtered and sorted.
func (s *PaymentService) List(ctx context.Context, teacherID string, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	payments, err := s.repo.ListByTeacher(ctx, teacherID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// Create records a payment against an owned student.
func (s *PaymentService) Create(ctx context.Context, teacherID string, req dto.CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	if _, err := s.ownedStudent(ctx, teacherID, req.StudentID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		Description:   req.Description,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	s.invalidateReports(ctx, teacherID)
	return payment, nil
}

// Update edits an existing payment.
func (s *PaymentService) Update(ctx context.Context, teacherID, paymentID string, req dto.UpdatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	payment, err := s.ownedPayment(ctx, teacherID, paymentID)
	if err != nil {
		return nil, err
	}

	payment.Amount = req.Amount
	payment.PaymentDate = req.PaymentDate
	payment.PaymentMethod = req.PaymentMethod
	payment.Status = req.Status
	payment.Description = req.Description
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	s.invalidateReports(ctx, teacherID)
	return payment, nil
}

// Delete removes a payment record.
func (s *PaymentService) Delete(ctx context.Context, teacherID, paymentID string) error {
	if _, err := s.ownedPayment(ctx, teacherID, paymentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, paymentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payment")
	}
	s.invalidateReports(ctx, teacherID)
	return nil
}

func (s *PaymentService) ownedPayment(ctx context.Context, teacherID, paymentID string) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if _, err := s.ownedStudent(ctx, teacherID, payment.StudentID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ownedStudent(ctx context.Context, teacherID, studentID string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another teacher")
	}
	return student, nil
}

func (s *PaymentService) invalidateReports(ctx context.Context, teacherID string) {
	if err := s.cache.Invalidate(ctx, "reports:"+teacherID+":*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
