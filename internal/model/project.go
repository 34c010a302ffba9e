package model

import "time"

type Project struct {
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Theme       string    `json:"theme"`
	Description *string   `json:"description,omitempty"`
	ID          int64     `json:"id,string"`
	WorkspaceID int64     `json:"workspace_id,string"`
	Starred     bool      `json:"starred"`
}
