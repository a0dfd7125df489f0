package domain

import "time"

// ShortLink maps a short code to a destination URL.
type ShortLink struct {
	Code           string     `json:"code"`
	LongURL        string     `json:"long_url"`
	ClickCount     int        `json:"click_count"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
}

// Key returns the store key for the record.
func (l ShortLink) Key() string { return l.Code }
