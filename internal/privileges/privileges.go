// Package privileges содержит перечень привилегий системы и статическую
// таблицу привилегий по умолчанию для каждой роли. Перечень стабилен:
// All всегда возвращает теги в порядке объявления.
package privileges

// Роли пользователей системы.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

// Теги привилегий.
const (
	UsersRead      = "users:read"
	UsersWrite     = "users:write"
	InventoryRead  = "inventory:read"
	InventoryWrite = "inventory:write"
	SuppliersRead  = "suppliers:read"
	SuppliersWrite = "suppliers:write"
	OrdersRead     = "orders:read"
	OrdersWrite    = "orders:write"
	ReportsView    = "reports:view"
	Admin          = "admin"
)

// all перечисляет привилегии в порядке объявления.
// Порядок является частью контракта API.
var all = []string{
	UsersRead,
	UsersWrite,
	InventoryRead,
	InventoryWrite,
	SuppliersRead,
	SuppliersWrite,
	OrdersRead,
	OrdersWrite,
	ReportsView,
	Admin,
}

// rolePermissions — привилегии, назначаемые по умолчанию при регистрации.
var rolePermissions = map[string][]string{
	RoleAdmin: {
		UsersRead, UsersWrite,
		InventoryRead, InventoryWrite,
		SuppliersRead, SuppliersWrite,
		OrdersRead, OrdersWrite,
		ReportsView, Admin,
	},
	RoleManager: {
		InventoryRead, InventoryWrite,
		SuppliersRead, SuppliersWrite,
		OrdersRead, OrdersWrite,
		ReportsView,
	},
	RoleStaff: {
		InventoryRead, InventoryWrite,
		SuppliersRead,
		OrdersRead,
	},
	RoleViewer: {
		InventoryRead,
		SuppliersRead,
		OrdersRead,
		ReportsView,
	},
}

// All возвращает полный перечень привилегий системы.
func All() []string {
	result := make([]string, len(all))
	copy(result, all)
	return result
}

// Defaults возвращает список привилегий по умолчанию для роли.
// Неизвестная роль даёт пустой список.
func Defaults(role string) []string {
	defaults, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	result := make([]string, len(defaults))
	copy(result, defaults)
	return result
}

// IsKnown сообщает, входит ли тег в перечень привилегий системы.
func IsKnown(tag string) bool {
	for _, p := range all {
		if p == tag {
			return true
		}
	}
	return false
}
