package models

import "strings"

// Profile describes the signed-in user.
type Profile struct {
	Username string
	// Name is the display name: first and last name joined by a space.
	Name string
	// LoginName is the handle shown to the user, "@" + Username.
	LoginName string
	// Bio is empty when the user has none.
	Bio string
}

// ProfileFromResult converts the /me response.
func ProfileFromResult(r ProfileResult) Profile {
	p := Profile{
		Username:  r.Username,
		Name:      strings.TrimSpace(r.FirstName + " " + r.LastName),
		LoginName: "@" + r.Username,
	}
	if r.Bio != nil {
		p.Bio = *r.Bio
	}
	return p
}
