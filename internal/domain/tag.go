package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTagNameLength is the longest tag name accepted, in characters.
const MaxTagNameLength = 50

// Validation errors for Tag
var (
	ErrEmptyTagID      = errors.New("tag ID cannot be empty")
	ErrEmptyTagUserID  = errors.New("tag user ID cannot be empty")
	ErrEmptyTagName    = fmt.Errorf("%w: tag name cannot be empty", ErrValidation)
	ErrTagNameTooLong  = fmt.Errorf("%w: tag name must be at most %d characters", ErrValidation, MaxTagNameLength)
	ErrInvalidTagColor = fmt.Errorf("%w: tag color must be a hex color like #a1b2c3", ErrValidation)
)

var tagColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Tag is a user-scoped label. Names are unique per user ignoring case; the
// stored Name keeps the casing it was first created with.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTag creates a new Tag for userID. The name is trimmed.
func NewTag(userID uuid.UUID, name, color string) (*Tag, error) {
	tag := &Tag{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Color:     strings.TrimSpace(color),
		CreatedAt: now(),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTagID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTagUserID
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTagName
	}
	if utf8.RuneCountInString(t.Name) > MaxTagNameLength {
		return ErrTagNameTooLong
	}
	if t.Color != "" && !tagColorRegex.MatchString(t.Color) {
		return ErrInvalidTagColor
	}
	return nil
}

// Key returns the case-insensitive identity of the tag name.
func (t *Tag) Key() string {
	return TagKey(t.Name)
}

// TagKey normalizes a tag name for case-insensitive comparison.
func TagKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UniqueTagNames trims names, drops blanks and removes case-insensitive
// duplicates. The first spelling of each name wins.
func UniqueTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := TagKey(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
