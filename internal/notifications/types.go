package notifications

// Notification types. The scheduler creates the first two; added_items is
// reserved for the AI import flow and manual creation.
const (
	TypeExpiryWarning = "item_expiry_warning"
	TypeExpired       = "item_expired"
	TypeAddedItems    = "added_items"
)

var validTypes = []string{TypeExpiryWarning, TypeExpired, TypeAddedItems}

// Notification is one alert, optionally tied to an item. ItemID is not an
// ownership relation: it may dangle after the item is deleted.
type Notification struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	ItemID    *string `json:"itemId"`
	CreatedAt int64   `json:"createdAt"`
	IsRead    bool    `json:"isRead"`
}

// CreateParams carries the fields accepted when creating a notification.
type CreateParams struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	ItemID  string `json:"itemId"`
}

// UpdateParams is the update whitelist: isRead is the only user-mutable
// field after creation. Nil means "not provided".
type UpdateParams struct {
	IsRead *bool `json:"isRead"`
}

// Filters narrow List results.
type Filters struct {
	Type   string
	IsRead *bool
}

// Stats aggregates read state over the full collection.
type Stats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

// DeleteResult reports a bulk deletion. Removing zero matches is not an
// error.
type DeleteResult struct {
	DeletedCount int `json:"deletedCount"`
}

// Types returns the accepted notification type values.
func Types() []string {
	out := make([]string, len(validTypes))
	copy(out, validTypes)
	return out
}

// ValidType reports whether value is an accepted notification type.
func ValidType(value string) bool {
	for _, t := range validTypes {
		if t == value {
			return true
		}
	}
	return false
}
