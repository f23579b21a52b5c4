// Package model defines the GitHub resources the explorer works with.
package model

import "time"

// User is the owner of a repository or the author of an issue.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repository is a GitHub repository as returned by search and detail endpoints.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Owner       User      `json:"owner"`
	Description string    `json:"description,omitempty"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Watchers    int       `json:"watchers_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Language    string    `json:"language,omitempty"`
	HTMLURL     string    `json:"html_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchPage is one page of repository search results.
type SearchPage struct {
	Items      []Repository `json:"items"`
	TotalCount int          `json:"total_count"`
	Incomplete bool         `json:"incomplete_results"`
}
