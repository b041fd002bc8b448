package model

import "fmt"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleTable Role = "table"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleStaff, RoleTable:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Operation names one guarded action of the point-of-sale.
type Operation string

const (
	OpPlaceOrder     Operation = "place_order"
	OpViewAllOrders  Operation = "view_all_orders"
	OpAcceptOrder    Operation = "accept_order"
	OpCompleteOrder  Operation = "complete_order"
	OpCancelOrder    Operation = "cancel_order"
	OpUpdateStatus   Operation = "update_status"
	OpPay            Operation = "pay"
	OpViewPayments   Operation = "view_payments"
	OpRefund         Operation = "refund"
	OpManageAccounts Operation = "manage_accounts"
	OpManageMenu     Operation = "manage_menu"
	OpViewReports    Operation = "view_reports"
	OpWatchFeed      Operation = "watch_feed"
)

var capabilities = map[Role]map[Operation]bool{
	RoleAdmin: {
		OpViewAllOrders:  true,
		OpCancelOrder:    true,
		OpUpdateStatus:   true,
		OpPay:            true,
		OpViewPayments:   true,
		OpRefund:         true,
		OpManageAccounts: true,
		OpManageMenu:     true,
		OpViewReports:    true,
		OpWatchFeed:      true,
	},
	RoleStaff: {
		OpViewAllOrders: true,
		OpAcceptOrder:   true,
		OpCompleteOrder: true,
		OpCancelOrder:   true,
		OpUpdateStatus:  true,
		OpPay:           true,
		OpViewPayments:  true,
		OpWatchFeed:     true,
	},
	RoleTable: {
		OpPlaceOrder:   true,
		OpCancelOrder:  true,
		OpUpdateStatus: true,
		OpPay:          true,
	},
}

func (r Role) Can(op Operation) bool {
	return capabilities[r][op]
}

// Actor is the authenticated caller of a core operation.
type Actor struct {
	AccountID   uint
	Role        Role
	TableNumber *int
}

func (a Actor) Can(op Operation) bool {
	return a.Role.Can(op)
}

// Owns reports whether a table actor sits at the order's table.
// Non-table roles are not owners of any order.
func (a Actor) Owns(o *Order) bool {
	return a.Role == RoleTable && a.TableNumber != nil && *a.TableNumber == o.TableNumber
}
