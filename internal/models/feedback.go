package models

// Feedback is an append-only customer testimonial. Name, email and rating are
// optional; only the message is required.
type Feedback struct {
	BaseModel
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Rating         *int   `json:"rating,omitempty"`
	ExperienceType string `json:"experience_type,omitempty"`
	Message        string `json:"message"`
}
