package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated back-office user.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Proposal represents a commercial proposal whose rates feed measurements.
type Proposal struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	Number            string         `db:"number" json:"number"`
	ClientName        string         `db:"client_name" json:"client_name"`
	Description       string         `db:"description" json:"description"`
	Status            ProposalStatus `db:"status" json:"status"`
	Mobilization      float64        `db:"mobilization" json:"mobilization"`
	Demobilization    float64        `db:"demobilization" json:"demobilization"`
	MinHoursGuarantee float64        `db:"min_hours_guarantee" json:"min_hours_guarantee"`
	HourValue         float64        `db:"hour_value" json:"hour_value"`
	ExtraHourValue    float64        `db:"extra_hour_value" json:"extra_hour_value"`
	PeriodsQuantity   int            `db:"periods_quantity" json:"periods_quantity"`
	Discount          float64        `db:"discount" json:"discount"`
	IgnoreLunchBreak  bool           `db:"ignore_lunch_break" json:"ignore_lunch_break"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// DailyReport is one operator-shift time entry (BDE) captured in the field.
// Reports are consumed read-only by the measurement pipeline.
type DailyReport struct {
	ID             uuid.UUID `db:"id" json:"id"`
	JobID          uuid.UUID `db:"job_id" json:"job_id"`
	ReportNumber   string    `db:"report_number" json:"report_number"`
	OperatorName   string    `db:"operator_name" json:"operator_name"`
	ReportDate     time.Time `db:"report_date" json:"report_date"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	LunchStartTime string    `db:"lunch_start_time" json:"lunch_start_time"`
	LunchEndTime   string    `db:"lunch_end_time" json:"lunch_end_time"`
	DowntimeHours  float64   `db:"downtime_hours" json:"downtime_hours"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ProposalSnapshot is the rate configuration copied onto a measurement at
// creation time. It stays frozen unless the user explicitly re-applies
// proposal data.
type ProposalSnapshot struct {
	Mobilization      float64 `db:"mobilization" json:"mobilization"`
	Demobilization    float64 `db:"demobilization" json:"demobilization"`
	MinHoursGuarantee float64 `db:"min_hours_guarantee" json:"min_hours_guarantee"`
	HourValue         float64 `db:"hour_value" json:"hour_value"`
	ExtraHourValue    float64 `db:"extra_hour_value" json:"extra_hour_value"`
	PeriodsQuantity   int     `db:"periods_quantity" json:"periods_quantity"`
	ConsideredHours   float64 `db:"considered_hours" json:"considered_hours"`
	Discount          float64 `db:"discount" json:"discount"`
	IgnoreLunchBreak  bool    `db:"ignore_lunch_break" json:"ignore_lunch_break"`
}

// MeasurementDetail is one computed line per daily report.
type MeasurementDetail struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	MeasurementID  uuid.UUID  `db:"measurement_id" json:"measurement_id"`
	ReportID       *uuid.UUID `db:"report_id" json:"report_id"`
	ReportNumber   string     `db:"report_number" json:"report_number"`
	OperatorName   string     `db:"operator_name" json:"operator_name"`
	ReportDate     time.Time  `db:"report_date" json:"report_date"`
	DowntimeHours  float64    `db:"downtime_hours" json:"downtime_hours"`
	TotalHours     float64    `db:"total_hours" json:"total_hours"`
	GuaranteeHours float64    `db:"guarantee_hours" json:"guarantee_hours"`
	OvertimeHours  float64    `db:"overtime_hours" json:"overtime_hours"`
	BalanceHours   float64    `db:"balance_hours" json:"balance_hours"`
	HourValue      float64    `db:"hour_value" json:"hour_value"`
	ExtraHourValue float64    `db:"extra_hour_value" json:"extra_hour_value"`
	Position       int        `db:"position" json:"position"`
}

// Totals holds the aggregate figures derived from a measurement's detail
// lines and proposal snapshot. Totals are never persisted independently of
// the measurement row; they are always recomputed from details + snapshot.
type Totals struct {
	TotalDowntimeHours  float64 `json:"total_downtime_hours"`
	TotalTotalHours     float64 `json:"total_total_hours"`
	TotalGuaranteeHours float64 `json:"total_guarantee_hours"`
	TotalOvertimeHours  float64 `json:"total_overtime_hours"`
	TotalBalanceHours   float64 `json:"total_balance_hours"`
	TotalBaseValue      float64 `json:"total_base_value"`
	TotalOvertimeValue  float64 `json:"total_overtime_value"`
	TotalValue          float64 `json:"total_value"`
}

// Measurement is a billing period's worth of reconciled hours for one job.
type Measurement struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	JobID         uuid.UUID         `db:"job_id" json:"job_id"`
	ProposalID    *uuid.UUID        `db:"proposal_id" json:"proposal_id"`
	ClientName    string            `db:"client_name" json:"client_name"`
	StartDate     time.Time         `db:"start_date" json:"start_date"`
	EndDate       time.Time         `db:"end_date" json:"end_date"`
	Status        MeasurementStatus `db:"status" json:"status"`
	BillingStatus BillingStatus     `db:"billing_status" json:"billing_status"`
	Snapshot      ProposalSnapshot  `db:"-" json:"proposal_snapshot"`
	TotalValue    float64           `db:"total_value" json:"total_value"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`

	Details []MeasurementDetail `db:"-" json:"details,omitempty"`
	Totals  *Totals             `db:"-" json:"totals,omitempty"`
}

// MeasurementGroup consolidates multiple measurements into one billing unit.
type MeasurementGroup struct {
	ID         uuid.UUID         `db:"id" json:"id"`
	Name       string            `db:"name" json:"name"`
	Status     MeasurementStatus `db:"status" json:"status"`
	TotalValue float64           `db:"total_value" json:"total_value"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`

	MemberIDs []uuid.UUID   `db:"-" json:"member_ids,omitempty"`
	Members   []Measurement `db:"-" json:"members,omitempty"`
}

// ImportedBillingData is the embedded snapshot carried by manually imported
// billing rows, which have no backing measurement.
type ImportedBillingData struct {
	ServiceDate *time.Time `db:"imported_service_date" json:"service_date"`
	IssueDate   *time.Time `db:"imported_issue_date" json:"issue_date"`
	DueDate     *time.Time `db:"imported_due_date" json:"due_date"`
	CompanyName string     `db:"imported_company_name" json:"company_name"`
	GrossValue  float64    `db:"imported_gross_value" json:"gross_value"`
}

// BillingRecord is one ledger metadata line. It is owned by exactly one of:
// an approved measurement, an approved group, or an imported row.
type BillingRecord struct {
	ID            uuid.UUID           `db:"id" json:"id"`
	MeasurementID *uuid.UUID          `db:"measurement_id" json:"measurement_id"`
	GroupID       *uuid.UUID          `db:"group_id" json:"group_id"`
	IsImported    bool                `db:"is_imported" json:"is_imported"`
	Imported      ImportedBillingData `db:"-" json:"imported_data"`
	InvoiceNumber string              `db:"invoice_number" json:"invoice_number"`
	DueDate       *time.Time          `db:"due_date" json:"due_date"`
	PaymentDate   *time.Time          `db:"payment_date" json:"payment_date"`
	ISSValue      float64             `db:"iss_value" json:"iss_value"`
	INSSValue     float64             `db:"inss_value" json:"inss_value"`
	PaymentMethod string              `db:"payment_method" json:"payment_method"`
	Attachments   json.RawMessage     `db:"attachments" json:"attachments"`
	IsActive      bool                `db:"is_active" json:"is_active"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
}

// AttachmentKeys decodes the attachments column into a list of object keys.
// A missing or malformed column yields an empty list.
func (b *BillingRecord) AttachmentKeys() []string {
	if len(b.Attachments) == 0 {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(b.Attachments, &keys); err != nil {
		return nil
	}
	return keys
}

// BillingRef identifies the metadata row behind a ledger line. RecordID is
// nil for placeholder refs: the line exists in the ledger but no metadata row
// has been written yet, so the first edit must insert rather than update.
type BillingRef struct {
	RecordID      *uuid.UUID   `json:"record_id"`
	Source        LedgerSource `json:"source"`
	MeasurementID *uuid.UUID   `json:"measurement_id,omitempty"`
	GroupID       *uuid.UUID   `json:"group_id,omitempty"`
}

// IsPlaceholder reports whether the ref points at a not-yet-written metadata row.
func (r BillingRef) IsPlaceholder() bool { return r.RecordID == nil }

// DisplayID returns the stable identifier shown to clients: the metadata row
// id when one exists, otherwise a synthetic "meas-<id>" / "group-<id>" value.
func (r BillingRef) DisplayID() string {
	if r.RecordID != nil {
		return r.RecordID.String()
	}
	switch r.Source {
	case LedgerSourceMeasurement:
		if r.MeasurementID != nil {
			return "meas-" + r.MeasurementID.String()
		}
	case LedgerSourceGroup:
		if r.GroupID != nil {
			return "group-" + r.GroupID.String()
		}
	}
	return ""
}

// LedgerRow is one displayable billing ledger line merged from its source
// (measurement, group, or imported record) and optional metadata.
type LedgerRow struct {
	Ref           BillingRef   `json:"ref"`
	DisplayID     string       `json:"display_id"`
	Source        LedgerSource `json:"source"`
	CompanyName   string       `json:"company_name"`
	Description   string       `json:"description"`
	DisplayDate   *time.Time   `json:"display_date"`
	GrossValue    float64      `json:"gross_value"`
	ISSValue      float64      `json:"iss_value"`
	INSSValue     float64      `json:"inss_value"`
	NetValue      float64      `json:"net_value"`
	InvoiceNumber string       `json:"invoice_number"`
	DueDate       *time.Time   `json:"due_date"`
	PaymentDate   *time.Time   `json:"payment_date"`
	PaymentMethod string       `json:"payment_method"`
	Attachments   []string     `json:"attachments,omitempty"`
}

// MonthBucket groups ledger rows by the month/year of their display date for
// month-tabbed presentation. Rows with no display date land in the zero bucket.
type MonthBucket struct {
	Year  int          `json:"year"`
	Month time.Month   `json:"month"`
	Rows  []LedgerRow  `json:"rows"`
}
