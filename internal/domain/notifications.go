package domain

// Production roles used for notification targeting and the my-work-orders
// stage lookup.
const (
	RoleBlockManager         = "block-manager"
	RoleSawingManager        = "sawing-manager"
	RoleFillingManager       = "filling-manager"
	RoleSlabPolishingManager = "slab-polishing-manager"
	RoleProductManager       = "product-manager"
	RolePackagingManager     = "packaging-manager"
	RoleFactoryManager       = "factory-manager"
	RoleTrimmingQE           = "trimming-qe"
	RoleSawingQE             = "sawing-qe"
	RoleFillingQE            = "filling-qe"
	RolePolishingQE          = "polishing-qe"
	RoleTileQE               = "tile-qe"
	RoleDataOperator         = "data-operator"
)

// Notification is an outbound message intent produced by a transition. The
// core never delivers notifications itself; the caller dispatches them after
// the state mutation has durably committed.
type Notification struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Roles     []string `json:"roles"`
	AuthToken string   `json:"authToken,omitempty"`
}

// notify appends a notification intent to the work order's pending set.
func (wo *WorkOrder) notify(title, body string, roles ...string) {
	wo.Notifications = append(wo.Notifications, Notification{
		Title: title,
		Body:  body,
		Roles: roles,
	})
}

// PendingNotifications returns the intents accumulated by the operations
// applied since the aggregate was loaded.
func (wo *WorkOrder) PendingNotifications() []Notification {
	return wo.Notifications
}

// ClearNotifications drops accumulated intents, called once they have been
// handed to the dispatcher.
func (wo *WorkOrder) ClearNotifications() {
	wo.Notifications = nil
}
