package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is one conversation thread scoped to a user and an academic
// context. The academic scope (collection, faculty, semester, book) is fixed
// at creation and never mutated afterwards.
type ChatSession struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	CollectionName  string
	FacultyId       string
	SemesterId      string
	BookId          *uuid.UUID
	LearningSummary string
	Title           string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
