package model

import "time"

// Review is a rated comment attached to exactly one campground and owned
// by exactly one user.
type Review struct {
	ID           string    `db:"id" json:"id"`
	CampgroundID string    `db:"campground_id" json:"campgroundId"`
	AuthorID     string    `db:"author_id" json:"authorId"`
	Body         string    `db:"body" json:"body"`
	Rating       int       `db:"rating" json:"rating"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
