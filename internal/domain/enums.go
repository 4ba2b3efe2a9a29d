package domain

// UserRole defines the back-office role hierarchy.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ProposalStatus represents the lifecycle of a commercial proposal.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// MeasurementStatus represents the lifecycle of a measurement or group.
// Open measurements are editable; approved ones move to billing and become
// read-mostly.
type MeasurementStatus string

const (
	MeasurementStatusOpen     MeasurementStatus = "open"
	MeasurementStatusApproved MeasurementStatus = "approved"
)

// BillingStatus tracks where a measurement sits in the billing flow.
type BillingStatus string

const (
	BillingStatusPending BillingStatus = "pending"
	BillingStatusGrouped BillingStatus = "grouped"
	BillingStatusBilled  BillingStatus = "billed"
	BillingStatusPaid    BillingStatus = "paid"
)

// LedgerSource identifies which of the three disjoint sources produced a
// ledger row.
type LedgerSource string

const (
	LedgerSourceMeasurement LedgerSource = "measurement"
	LedgerSourceGroup       LedgerSource = "group"
	LedgerSourceImported    LedgerSource = "imported"
)

// SortDirection for ledger sorting.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)
