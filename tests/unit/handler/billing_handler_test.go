package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medibill/internal/domain"
	"medibill/internal/handler"
	"medibill/internal/ledger"
	"medibill/internal/service"
	"medibill/mocks"
)

func multipartRequest(t *testing.T, path, field, fileName string, content []byte) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, path, &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return w, c
}

func TestBillingHandler_Ledger_DefaultSort(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	buckets := []domain.MonthBucket{{Year: 2025, Month: time.June}}
	mockSvc.On("Ledger", mock.Anything, ledger.SortByDate, domain.SortAsc).Return(buckets, nil)

	w, c := jsonRequest(http.MethodGet, "/api/v1/billing", nil)
	h.Ledger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_Ledger_SortParams(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	mockSvc.On("Ledger", mock.Anything, ledger.SortByCompany, domain.SortDesc).
		Return([]domain.MonthBucket{}, nil)

	w, c := jsonRequest(http.MethodGet, "/api/v1/billing?sort=company&dir=desc", nil)
	h.Ledger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_UpsertRow_Success(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	measurementID := uuid.New()
	rec := &domain.BillingRecord{ID: uuid.New(), MeasurementID: &measurementID, InvoiceNumber: "NF-101"}
	mockSvc.On("UpsertRow", mock.Anything, mock.MatchedBy(func(in *service.UpsertBillingInput) bool {
		return in.MeasurementID != nil && *in.MeasurementID == measurementID &&
			in.InvoiceNumber != nil && *in.InvoiceNumber == "NF-101"
	})).Return(rec, nil)

	w, c := jsonRequest(http.MethodPut, "/api/v1/billing/rows", gin.H{
		"measurement_id": measurementID,
		"invoice_number": "NF-101",
	})
	h.UpsertRow(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_UpsertRow_AmbiguousSource(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	mockSvc.On("UpsertRow", mock.Anything, mock.AnythingOfType("*service.UpsertBillingInput")).
		Return(nil, domain.ErrValidation)

	w, c := jsonRequest(http.MethodPut, "/api/v1/billing/rows", gin.H{
		"measurement_id": uuid.New(),
		"group_id":       uuid.New(),
	})
	h.UpsertRow(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestBillingHandler_SoftDelete_Success(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("SoftDelete", mock.Anything, id).Return(nil)

	w, c := jsonRequest(http.MethodDelete, "/api/v1/billing/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.SoftDelete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_SoftDelete_InvalidID(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	w, c := jsonRequest(http.MethodDelete, "/api/v1/billing/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.SoftDelete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestBillingHandler_Import_Success(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	records := []domain.BillingRecord{{ID: uuid.New(), IsImported: true}}
	mockSvc.On("ImportSpreadsheet", mock.Anything, mock.Anything).Return(records, nil)

	w, c := multipartRequest(t, "/api/v1/billing/import", "file", "ledger.xlsx", []byte("xlsx-bytes"))
	h.Import(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_Import_MissingFile(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	w, c := jsonRequest(http.MethodPost, "/api/v1/billing/import", nil)
	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ImportSpreadsheet", mock.Anything, mock.Anything)
}

func TestBillingHandler_Import_BadWorkbook(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	mockSvc.On("ImportSpreadsheet", mock.Anything, mock.Anything).
		Return(nil, domain.ErrSpreadsheetFormat)

	w, c := multipartRequest(t, "/api/v1/billing/import", "file", "ledger.xlsx", []byte("junk"))
	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_Export_Success(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	mockSvc.On("ExportCSV", mock.Anything, mock.Anything).Return(nil)

	w, c := jsonRequest(http.MethodGet, "/api/v1/billing/export", nil)
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "billing-ledger-")
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_Export_XLSXFormat(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	mockSvc.On("ExportXLSX", mock.Anything, mock.Anything).Return(nil)

	w, c := jsonRequest(http.MethodGet, "/api/v1/billing/export?format=xlsx", nil)
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_Export_UnknownFormat(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	w, c := jsonRequest(http.MethodGet, "/api/v1/billing/export?format=pdf", nil)
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ExportCSV", mock.Anything, mock.Anything)
	mockSvc.AssertNotCalled(t, "ExportXLSX", mock.Anything, mock.Anything)
}

func TestBillingHandler_AddAttachment_Success(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("AddAttachment", mock.Anything, id, "invoice.pdf", mock.Anything,
		mock.AnythingOfType("int64"), mock.Anything).
		Return("billing/"+id.String()+"/invoice.pdf", nil)

	w, c := multipartRequest(t, "/api/v1/billing/"+id.String()+"/attachments",
		"file", "invoice.pdf", []byte("%PDF-1.4"))
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.AddAttachment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_AddAttachment_UnsupportedType(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("AddAttachment", mock.Anything, id, mock.Anything, mock.Anything,
		mock.AnythingOfType("int64"), mock.Anything).
		Return("", domain.ErrUnsupportedFileType)

	w, c := multipartRequest(t, "/api/v1/billing/"+id.String()+"/attachments",
		"file", "notes.txt", []byte("hello"))
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.AddAttachment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_AttachmentURL_Success(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	id := uuid.New()
	key := "billing/" + id.String() + "/invoice.pdf"
	mockSvc.On("AttachmentURL", mock.Anything, id, key).Return("https://s3/signed", nil)

	w, c := jsonRequest(http.MethodGet,
		"/api/v1/billing/"+id.String()+"/attachments/url?key="+key, nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.AttachmentURL(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBillingHandler_AttachmentURL_MissingKey(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	id := uuid.New()
	w, c := jsonRequest(http.MethodGet, "/api/v1/billing/"+id.String()+"/attachments/url", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.AttachmentURL(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "AttachmentURL", mock.Anything, mock.Anything, mock.Anything)
}
