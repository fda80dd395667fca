package chat

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidRole is returned when a sender role is neither Doctor nor Patient.
var ErrInvalidRole = errors.New("role must be Doctor or Patient")

// Role identifies which participant authored a message.
type Role string

const (
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
)

// ParseRole accepts the canonical spelling case-insensitively.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "doctor":
		return RoleDoctor, nil
	case "patient":
		return RolePatient, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// Opposite returns the counterpart role.
func (r Role) Opposite() Role {
	if r == RoleDoctor {
		return RolePatient
	}
	return RoleDoctor
}

// Summary is the structured clinical summary attached to a summary message.
type Summary struct {
	Symptoms    string `json:"symptoms"`
	Diagnosis   string `json:"diagnosis"`
	Medications string `json:"medications"`
	FollowUp    string `json:"followUp"`
}

// Message is a single immutable entry in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderRole     Role      `json:"senderRole"`
	OriginalText   string    `json:"originalText"`
	TranslatedText string    `json:"translatedText,omitempty"`
	AudioURL       string    `json:"audioUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	IsSummary      bool      `json:"isSummary"`
	Summary        *Summary  `json:"summary,omitempty"`
}

// Draft carries everything a caller supplies when appending a message; the
// store assigns ID and CreatedAt.
type Draft struct {
	ConversationID string
	SenderRole     Role
	OriginalText   string
	TranslatedText string
	AudioURL       string
	IsSummary      bool
	Summary        *Summary
}

// Eligible reports whether the message contributes a transcript line.
func (m Message) Eligible() bool {
	return !m.IsSummary && m.OriginalText != ""
}
