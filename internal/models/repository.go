package models

import "time"

// Repository is a repository visible to the authenticated principal.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Owner       string    `json:"owner"`
	OwnerType   string    `json:"owner_type"`
	Description string    `json:"description,omitempty"`
	Private     bool      `json:"private"`
	Fork        bool      `json:"fork"`
	Language    string    `json:"language,omitempty"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is the authenticated principal.
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// RepositoryStats summarizes a discovered repository list.
type RepositoryStats struct {
	Total        int `json:"total"`
	Public       int `json:"public"`
	Private      int `json:"private"`
	Owned        int `json:"owned"`
	Organization int `json:"organization"`
}
