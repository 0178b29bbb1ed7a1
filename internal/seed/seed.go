// Package seed fills a content store with placeholder users and posts so the
// generators have something to work with.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tcg/internal/content"
	"tcg/internal/lipsum"
)

// MaxDays bounds the span post dates are spread over.
const MaxDays = 3650

// ErrUnknownPostType is returned when the store does not register the requested post type.
var ErrUnknownPostType = errors.New("unknown post type")

type Config struct {
	Users    int
	Posts    int
	PostType string
	// Days spreads post dates over [Now - Days, Now], clamped to [0, MaxDays].
	Days int
	Now  time.Time
	Rand *rand.Rand
}

// Result lists what was created.
type Result struct {
	Users []content.User
	Posts []content.Post
}

var firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Frances", "Ken", "Radia", "Linus"}
var lastNames = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson", "Perlman", "Torvalds"}

// Generate builds users and posts without touching a store. Post authors are
// chosen from the generated users by index (AuthorID holds index+1 until Apply
// assigns real ids).
func Generate(cfg Config) Result {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(cfg.Now.UnixNano()))
	}
	if cfg.PostType == "" {
		cfg.PostType = "post"
	}
	cfg.Days = max(0, min(cfg.Days, MaxDays))
	r := cfg.Rand

	var res Result
	for i := 0; i < cfg.Users; i++ {
		first := firstNames[r.Intn(len(firstNames))]
		last := lastNames[r.Intn(len(lastNames))]
		login := fmt.Sprintf("%s_%s", strings.ToLower(first), strings.Split(uuid.NewString(), "-")[0])
		res.Users = append(res.Users, content.User{
			Login:       login,
			DisplayName: first + " " + last,
			Email:       login + "@example.org",
		})
	}

	span := int64(cfg.Days) * 86400
	for i := 0; i < cfg.Posts; i++ {
		var author int64
		if len(res.Users) > 0 {
			author = int64(r.Intn(len(res.Users)) + 1)
		}
		offset := int64(0)
		if span > 0 {
			offset = r.Int63n(span + 1)
		}
		res.Posts = append(res.Posts, content.Post{
			Type:     cfg.PostType,
			Status:   content.StatusPublish,
			Title:    lipsum.Title(r),
			Content:  lipsum.Paragraphs(r, 2, 4),
			AuthorID: author,
			Date:     cfg.Now.Add(-time.Duration(offset) * time.Second).UTC(),
		})
	}

	return res
}

// Run checks that store registers cfg.PostType, then generates and applies
// the content.
func Run(ctx context.Context, store content.Store, cfg Config) (Result, error) {
	if cfg.PostType == "" {
		cfg.PostType = "post"
	}

	types, err := store.PostTypes(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list post types: %w", err)
	}
	names := make([]string, len(types))
	for i, pt := range types {
		names[i] = pt.Name
	}
	if !slices.Contains(names, cfg.PostType) {
		return Result{}, fmt.Errorf("%w %q (registered: %s)", ErrUnknownPostType, cfg.PostType, strings.Join(names, ", "))
	}

	return Apply(ctx, store, Generate(cfg))
}

// Apply writes res to store, replacing placeholder author indexes with the
// ids the store assigned. The returned Result carries the stored ids.
func Apply(ctx context.Context, store content.Store, res Result) (Result, error) {
	var out Result

	for _, u := range res.Users {
		id, err := store.InsertUser(ctx, u)
		if err != nil {
			return out, fmt.Errorf("failed to insert user %s: %w", u.Login, err)
		}
		u.ID = id
		out.Users = append(out.Users, u)
	}

	for _, p := range res.Posts {
		if p.AuthorID > 0 && int(p.AuthorID) <= len(out.Users) {
			p.AuthorID = out.Users[p.AuthorID-1].ID
		}
		id, err := store.InsertPost(ctx, p)
		if err != nil {
			return out, fmt.Errorf("failed to insert post: %w", err)
		}
		p.ID = id
		out.Posts = append(out.Posts, p)
	}

	log.Info().Int("users", len(out.Users)).Int("posts", len(out.Posts)).Msg("Seeded content store")
	return out, nil
}
