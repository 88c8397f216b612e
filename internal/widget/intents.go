package widget

import "reviewwidget/backend/internal/models"

// Intent is a side effect requested by Apply and carried out by the Controller.
type Intent interface {
	isIntent()
}

// OpenCompanion opens a visible companion session showing View.
type OpenCompanion struct {
	View    models.View
	Prefill *models.ReviewDraft
}

// Download opens a download-only companion session carrying Reviews.
type Download struct {
	Reviews []models.Review
}

// Notify shows a localized message to Recipient.
// Subject, when set, is appended to the message as "<message> <subject>.".
type Notify struct {
	Key       string
	Recipient *models.Identity
	Subject   string
}

// CloseSession ends the current interactive session.
type CloseSession struct{}

func (OpenCompanion) isIntent() {}
func (Download) isIntent()      {}
func (Notify) isIntent()        {}
func (CloseSession) isIntent()  {}
