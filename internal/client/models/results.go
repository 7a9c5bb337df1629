package models

// PhotoResult is one element of the GET /photos response.
type PhotoResult struct {
	ID          string    `json:"id"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   *string   `json:"created_at"`
	Description *string   `json:"description"`
	URLs        PhotoURLs `json:"urls"`
	LikedByUser bool      `json:"liked_by_user"`
}

// PhotoURLs lists the renditions of a photo.
type PhotoURLs struct {
	Raw     string `json:"raw,omitempty"`
	Full    string `json:"full,omitempty"`
	Regular string `json:"regular"`
	Small   string `json:"small,omitempty"`
	Thumb   string `json:"thumb"`
}

// ProfileResult is the GET /me response.
type ProfileResult struct {
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Bio       *string `json:"bio"`
}

// UserResult is the part of the GET /users/{username} response the client uses.
type UserResult struct {
	ProfileImage ProfileImage `json:"profile_image"`
}

// ProfileImage lists the avatar renditions.
type ProfileImage struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}
