package userrequests

// TemplateKind names a notification template
type TemplateKind string

const (
	// TemplateApplicationReceived confirms a submission to the applicant
	TemplateApplicationReceived TemplateKind = "application-received"
	// TemplateApplicationResolved tells the applicant their request closed
	TemplateApplicationResolved TemplateKind = "application-resolved"
)

// String returns the template identifier
func (k TemplateKind) String() string {
	return string(k)
}

// IsValid checks the kind against the known templates
func (k TemplateKind) IsValid() bool {
	switch k {
	case TemplateApplicationReceived, TemplateApplicationResolved:
		return true
	default:
		return false
	}
}

const (
	// SubjectApplicationReceived is the subject line for submission receipts
	SubjectApplicationReceived = "We received your request"
	// SubjectApplicationResolved is the subject line for resolution notices
	SubjectApplicationResolved = "Your request has been resolved"
)

func receivedNotification(app *Application) Notification {
	data := NotificationContext{
		Name:    app.Name,
		Message: app.Message,
	}
	if app.CreatedAt != nil {
		data.CreatedAt = *app.CreatedAt
	}

	return Notification{
		To:       app.Email,
		Subject:  SubjectApplicationReceived,
		Template: TemplateApplicationReceived,
		Data:     data,
	}
}

func resolvedNotification(app *Application) Notification {
	data := NotificationContext{
		Name:    app.Name,
		Message: app.Message,
		Comment: app.Comment,
	}
	if app.UpdatedAt != nil {
		data.UpdatedAt = *app.UpdatedAt
	}

	return Notification{
		To:       app.Email,
		Subject:  SubjectApplicationResolved,
		Template: TemplateApplicationResolved,
		Data:     data,
	}
}
