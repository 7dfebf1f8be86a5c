package models

type BillingCadence string
type PricingType string
type SubscriptionStatus string
type PaymentStatus string
type DerivedStatus string
type CostSource string
type AttachmentType string
type UserRole string

const (
	CadenceMonthly   BillingCadence = "monthly"
	CadenceQuarterly BillingCadence = "quarterly"
	CadenceYearly    BillingCadence = "yearly"

	PricingFixed    PricingType = "fixed"
	PricingVariable PricingType = "variable"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusOverdue PaymentStatus = "overdue"

	DerivedStatusActive    DerivedStatus = "active"
	DerivedStatusPending   DerivedStatus = "pending"
	DerivedStatusCancelled DerivedStatus = "cancelled"
	DerivedStatusOverdue   DerivedStatus = "overdue"
	DerivedStatusPaid      DerivedStatus = "paid"

	CostSourceManual CostSource = "manual"
	CostSourceImport CostSource = "import"
	CostSourceAPI    CostSource = "api"

	AttachmentTypeContract AttachmentType = "contract"
	AttachmentTypeInvoice  AttachmentType = "invoice"
	AttachmentTypeOther    AttachmentType = "other"

	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

// ValidCadence reports whether c is part of the closed cadence enum.
func ValidCadence(c BillingCadence) bool {
	switch c {
	case CadenceMonthly, CadenceQuarterly, CadenceYearly:
		return true
	}
	return false
}
