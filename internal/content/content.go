package content

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the storage format of post and comment dates (UTC).
const DateLayout = "2006-01-02 15:04:05"

// StatusPublish is the status of posts that are visible and can receive comments.
const StatusPublish = "publish"

// PostType describes a registered content type.
type PostType struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Public bool   `json:"public"`
}

// DefaultPostTypes are registered by every store on creation.
var DefaultPostTypes = []PostType{
	{Name: "post", Label: "Post", Public: true},
	{Name: "page", Label: "Page", Public: true},
	{Name: "attachment", Label: "Media", Public: true},
}

// User is a registered account that can author posts and comments.
type User struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Post is a unit of content that comments attach to.
type Post struct {
	ID       int64     `json:"id"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	AuthorID int64     `json:"author_id"`
	Date     time.Time `json:"date"`
}

// Comment is a comment record. ParentID 0 means a top-level comment.
type Comment struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"post_id"`
	ParentID    int64     `json:"parent_id"`
	UserID      int64     `json:"user_id"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	AuthorURL   string    `json:"author_url"`
	Content     string    `json:"content"`
	Date        time.Time `json:"date"`
	Approved    bool      `json:"approved"`
}

// Store is the content repository the generators read from and write to.
type Store interface {
	PostTypes(ctx context.Context) ([]PostType, error)
	// PublishedPostIDs returns the ids of published posts whose type is in types.
	// An empty type set matches nothing.
	PublishedPostIDs(ctx context.Context, types []string) ([]int64, error)
	CommentIDs(ctx context.Context, postID int64) ([]int64, error)
	Users(ctx context.Context) ([]User, error)

	InsertComment(ctx context.Context, c Comment) (int64, error)
	InsertPost(ctx context.Context, p Post) (int64, error)
	InsertUser(ctx context.Context, u User) (int64, error)

	Close() error
}

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// StoreError is a structured failure reported by a store adapter.
type StoreError struct {
	Op   string `json:"op"`
	Code string `json:"code"`
	Data any    `json:"data,omitempty"`
	Err  error  `json:"-"`
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Structured returns the error's machine-readable form.
func (e *StoreError) Structured() any {
	out := map[string]any{"op": e.Op, "code": e.Code}
	if e.Data != nil {
		out["data"] = e.Data
	}
	if e.Err != nil {
		out["message"] = e.Err.Error()
	}
	return out
}

func storeErr(op, code string, data any, err error) error {
	return &StoreError{Op: op, Code: code, Data: data, Err: err}
}

// FormatDate renders t in the storage layout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
