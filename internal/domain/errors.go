package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrValidation           = errors.New("validation failed")
	ErrMeasurementNotOpen   = errors.New("measurement is not open for editing")
	ErrMeasurementGrouped   = errors.New("measurement already belongs to an approved group")
	ErrGroupNotOpen         = errors.New("group is not open")
	ErrGroupMemberNotOpen   = errors.New("all group members must be open measurements")
	ErrProposalNumberTaken  = errors.New("proposal number already exists")
	ErrBillingRowInactive   = errors.New("billing record is inactive")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrSpreadsheetFormat    = errors.New("spreadsheet format not recognized")
)
