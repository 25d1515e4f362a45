package models

// Profile is the slice of the authenticated user's identity that gets
// snapshotted into post and comment rows. It is sourced from the auth
// provider's session and never written back.
type Profile struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
}
