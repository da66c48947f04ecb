package model

// UserProfile is a denormalized cache of the remote identity. It has no
// identity of its own beyond "last fetched for the current token" and is
// rebuilt whenever the token changes.
type UserProfile struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name"`
	HTMLURL   string `json:"html_url"`
}
