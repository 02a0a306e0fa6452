package enum

// ── Order state machine ──

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
)

// Payment sub-state, independent of OrderStatus.
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

const (
	PaymentMethodOVO   = "OVO"
	PaymentMethodGoPay = "GOPAY"
	PaymentMethodDANA  = "DANA"
	PaymentMethodVA    = "VA"
	PaymentMethodCash  = "CASH"
)

const (
	UserRoleCustomer = "CUSTOMER"
	UserRoleKitchen  = "KITCHEN"
	UserRoleAdmin    = "ADMIN"
)

// ── Menu categories (open set, these are the seeded ones) ──

const (
	CategoryMain    = "Main"
	CategoryProtein = "Protein"
	CategorySide    = "Side"
	CategoryDrink   = "Drink"
)

// ServiceFee is added to every order subtotal, in rupiah.
const ServiceFee int64 = 2000

// IsEWallet reports whether the method settles instantly at checkout.
func IsEWallet(method string) bool {
	switch method {
	case PaymentMethodOVO, PaymentMethodGoPay, PaymentMethodDANA:
		return true
	}
	return false
}

func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodOVO, PaymentMethodGoPay, PaymentMethodDANA,
		PaymentMethodVA, PaymentMethodCash:
		return true
	}
	return false
}

func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

func IsValidRole(role string) bool {
	switch role {
	case UserRoleCustomer, UserRoleKitchen, UserRoleAdmin:
		return true
	}
	return false
}
