package model

import "time"

type Blog struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Slug      string    `json:"slug" bson:"slug"`
	Body      string    `json:"body,omitempty" bson:"body,omitempty"`
	AuthorID  string    `json:"-" bson:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type BlogView struct {
	Blog
	Author *UserSummary `json:"author,omitempty"`
}
