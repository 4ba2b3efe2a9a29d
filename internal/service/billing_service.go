package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"medibill/internal/config"
	"medibill/internal/csvexport"
	"medibill/internal/domain"
	"medibill/internal/ledger"
	"medibill/internal/port"
	"medibill/internal/xlsx"
)

// UpsertBillingInput is the DTO for editing a ledger row's metadata. A nil
// RecordID means the row is still a placeholder: the edit inserts a fresh
// metadata record for the owning measurement or group. Subsequent edits
// carry the real record id and update in place.
type UpsertBillingInput struct {
	RecordID      *uuid.UUID `json:"record_id"`
	MeasurementID *uuid.UUID `json:"measurement_id"`
	GroupID       *uuid.UUID `json:"group_id"`

	InvoiceNumber *string    `json:"invoice_number"`
	DueDate       *time.Time `json:"due_date"`
	PaymentDate   *time.Time `json:"payment_date"`
	ISSValue      *float64   `json:"iss_value"`
	INSSValue     *float64   `json:"inss_value"`
	PaymentMethod *string    `json:"payment_method"`
}

// allowedAttachmentTypes maps accepted upload MIME types to file extensions.
var allowedAttachmentTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
}

// BillingService produces the unified billing ledger and manages its
// metadata rows, imports, exports, and attachments.
type BillingService interface {
	Ledger(ctx context.Context, sortField ledger.SortField, dir domain.SortDirection) ([]domain.MonthBucket, error)
	UpsertRow(ctx context.Context, input *UpsertBillingInput) (*domain.BillingRecord, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ImportSpreadsheet(ctx context.Context, r io.Reader) ([]domain.BillingRecord, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
	AddAttachment(ctx context.Context, recordID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (string, error)
	AttachmentURL(ctx context.Context, recordID uuid.UUID, key string) (string, error)
}

type billingService struct {
	billingRepo     port.BillingRepository
	measurementRepo port.MeasurementRepository
	groupRepo       port.MeasurementGroupRepository
	storage         port.ObjectStorage
	s3cfg           *config.S3Config
}

// NewBillingService creates a new BillingService implementation.
func NewBillingService(
	billingRepo port.BillingRepository,
	measurementRepo port.MeasurementRepository,
	groupRepo port.MeasurementGroupRepository,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
) BillingService {
	return &billingService{
		billingRepo:     billingRepo,
		measurementRepo: measurementRepo,
		groupRepo:       groupRepo,
		storage:         storage,
		s3cfg:           s3cfg,
	}
}

// Ledger assembles the three-source billing ledger, sorted and bucketed by
// month for display.
func (s *billingService) Ledger(ctx context.Context, sortField ledger.SortField, dir domain.SortDirection) ([]domain.MonthBucket, error) {
	measurements, err := s.measurementRepo.ListApprovedUnclaimed(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.billingRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	rows := ledger.Assemble(ledger.Inputs{
		Measurements: measurements,
		Groups:       groups,
		Records:      records,
	})
	ledger.Sort(rows, sortField, dir)
	return ledger.BucketByMonth(rows), nil
}

func (s *billingService) UpsertRow(ctx context.Context, input *UpsertBillingInput) (*domain.BillingRecord, error) {
	if input.RecordID != nil {
		rec, err := s.billingRepo.GetByID(ctx, *input.RecordID)
		if err != nil {
			return nil, err
		}
		if !rec.IsActive {
			return nil, domain.ErrBillingRowInactive
		}
		applyBillingPatch(rec, input)
		if err := s.billingRepo.Update(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	// First edit of a placeholder row: insert the metadata record.
	if (input.MeasurementID == nil) == (input.GroupID == nil) {
		return nil, domain.ErrValidation
	}
	rec := &domain.BillingRecord{
		MeasurementID: input.MeasurementID,
		GroupID:       input.GroupID,
	}
	applyBillingPatch(rec, input)
	if err := s.billingRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func applyBillingPatch(rec *domain.BillingRecord, input *UpsertBillingInput) {
	if input.InvoiceNumber != nil {
		rec.InvoiceNumber = *input.InvoiceNumber
	}
	if input.DueDate != nil {
		rec.DueDate = input.DueDate
	}
	if input.PaymentDate != nil {
		rec.PaymentDate = input.PaymentDate
	}
	if input.ISSValue != nil {
		rec.ISSValue = *input.ISSValue
	}
	if input.INSSValue != nil {
		rec.INSSValue = *input.INSSValue
	}
	if input.PaymentMethod != nil {
		rec.PaymentMethod = *input.PaymentMethod
	}
}

func (s *billingService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.billingRepo.SoftDelete(ctx, id)
}

// ImportSpreadsheet parses an uploaded workbook into imported billing
// records. Each parsed row becomes one active record carrying its own
// embedded snapshot.
func (s *billingService) ImportSpreadsheet(ctx context.Context, r io.Reader) ([]domain.BillingRecord, error) {
	rows, err := xlsx.ParseBillingSheet(r)
	if err != nil {
		return nil, err
	}

	records := make([]domain.BillingRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.BillingRecord{
			IsImported: true,
			Imported:   row,
		}
		if err := s.billingRepo.Create(ctx, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *billingService) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.exportRows(ctx)
	if err != nil {
		return err
	}
	return exportLedgerCSV(w, rows)
}

func (s *billingService) ExportXLSX(ctx context.Context, w io.Writer) error {
	rows, err := s.exportRows(ctx)
	if err != nil {
		return err
	}
	return xlsx.WriteLedgerSheet(w, rows)
}

// exportRows flattens the month buckets back into one date-ordered row list.
func (s *billingService) exportRows(ctx context.Context) ([]domain.LedgerRow, error) {
	buckets, err := s.Ledger(ctx, ledger.SortByDate, domain.SortAsc)
	if err != nil {
		return nil, err
	}
	var rows []domain.LedgerRow
	for _, b := range buckets {
		rows = append(rows, b.Rows...)
	}
	return rows, nil
}

func exportLedgerCSV(w io.Writer, rows []domain.LedgerRow) error {
	if _, err := w.Write(csvexport.BOM); err != nil {
		return err
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteRows(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *billingService) AddAttachment(ctx context.Context, recordID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (string, error) {
	ext, ok := allowedAttachmentTypes[contentType]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if size > s.s3cfg.MaxFileSizeMB*1024*1024 {
		return "", domain.ErrFileTooLarge
	}

	rec, err := s.billingRepo.GetByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	if !rec.IsActive {
		return "", domain.ErrBillingRowInactive
	}

	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	key := fmt.Sprintf("billing/%s/%s-%s.%s", recordID, uuid.New(), base, ext)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        body,
		ContentType: contentType,
		Size:        size,
	})
	if err != nil {
		return "", domain.ErrUploadFailed
	}

	keys := append(rec.AttachmentKeys(), key)
	encoded, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("billingService.AddAttachment encode: %w", err)
	}
	rec.Attachments = encoded
	if err := s.billingRepo.Update(ctx, rec); err != nil {
		return "", err
	}
	return key, nil
}

func (s *billingService) AttachmentURL(ctx context.Context, recordID uuid.UUID, key string) (string, error) {
	rec, err := s.billingRepo.GetByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	for _, k := range rec.AttachmentKeys() {
		if k == key {
			return s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, key, s.s3cfg.PresignExpiry)
		}
	}
	return "", domain.ErrNotFound
}
