package model

import "strings"

// Profile represents the signed-in user as reported by the identity
// provider. The store only keeps UserID, as an opaque string.
type Profile struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// DisplayName returns the name to greet the user with: the full name, else
// the local part of the email address, else the user ID.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(p.Email, "@"); ok && local != "" {
		return local
	}
	return p.UserID
}
