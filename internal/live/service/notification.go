package service

// Notification variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a short message for the user about the outcome of an
// action.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

// NotifyCreated reports a successful event creation.
func NotifyCreated(recurring bool) Notification {
	title := "Event Created!"
	if recurring {
		title = "Recurring Events Created!"
	}
	return Notification{
		Title:       title,
		Description: "Successfully added to the calendar.",
		Variant:     VariantDefault,
	}
}

// NotifyError reports a failed event creation. The cause is logged, never
// shown.
func NotifyError() Notification {
	return Notification{
		Title:       "Error",
		Description: "There was a problem creating your event. Please try again.",
		Variant:     VariantDestructive,
	}
}

// NotificationFor picks the notification for the outcome of Create.
func NotificationFor(res CreateResult, err error) Notification {
	if err != nil {
		return NotifyError()
	}
	return NotifyCreated(res.Recurring())
}
