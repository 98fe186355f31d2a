package models

// ContactMessage is a message submitted through the contact form. Readable by
// admins only.
type ContactMessage struct {
	BaseModel
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}
