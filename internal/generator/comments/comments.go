// Package comments generates synthetic comments from existing users on
// existing posts.
package comments

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"tcg/internal/content"
	"tcg/internal/generator"
	"tcg/internal/lipsum"
)

const (
	Ident   = "tcg_comments"
	Command = "comments"

	KeyAmount       = "amount"
	KeyPostTypeKeys = "post_type_keys"
	KeyDaysFrom     = "days_from"

	minAmount   = 1
	maxAmount   = 100
	maxDaysFrom = 3650

	// replyChance is the percentage of comments that try to reply to an
	// existing comment on the chosen post.
	replyChance = 65
)

var (
	ErrNoPosts      = errors.New("no published posts of the selected types")
	ErrNoUsers      = errors.New("no registered users")
	ErrInsertFailed = errors.New("failed to insert comment")
)

// excludedPostTypes never receive generated comments.
var excludedPostTypes = []string{"attachment", "page"}

// Generator implements generator.Generator for comments.
type Generator struct {
	store content.Store
	now   func() time.Time

	// mu serialises runs; rand is not safe for concurrent use.
	mu   sync.Mutex
	rand *rand.Rand

	// postTypes are the commentable public types, in store order.
	postTypes []content.PostType
}

// Option customises a Generator.
type Option func(*Generator)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rand = r }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a comment generator over store. The commentable post types are
// read once, here.
func New(ctx context.Context, store content.Store, opts ...Option) (*Generator, error) {
	types, err := store.PostTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list post types: %w", err)
	}

	g := &Generator{
		store: store,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
	for _, pt := range types {
		if pt.Public && !slices.Contains(excludedPostTypes, pt.Name) {
			g.postTypes = append(g.postTypes, pt)
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Generator) Ident() string   { return Ident }
func (g *Generator) Command() string { return Command }

func (g *Generator) Defaults() generator.Options {
	return generator.Options{
		KeyAmount:       1,
		KeyPostTypeKeys: []string{"post"},
		KeyDaysFrom:     60,
	}
}

// ValidPostTypes returns the keys accepted in post_type_keys.
func (g *Generator) ValidPostTypes() []string {
	keys := make([]string, len(g.postTypes))
	for i, pt := range g.postTypes {
		keys[i] = pt.Name
	}
	return keys
}

func (g *Generator) Sanitise(in generator.Input) generator.Options {
	defaults := g.Defaults()
	return generator.Options{
		KeyAmount:       generator.ReadInt(in, KeyAmount, minAmount, maxAmount, defaults[KeyAmount].(int)),
		KeyPostTypeKeys: generator.ReadArray(in, KeyPostTypeKeys, g.ValidPostTypes(), defaults[KeyPostTypeKeys].([]string)),
		// The range may reach back before a post was published.
		KeyDaysFrom: generator.ReadInt(in, KeyDaysFrom, 0, maxDaysFrom, defaults[KeyDaysFrom].(int)),
	}
}

func (g *Generator) Settings() generator.Section {
	typeChoices := make([]generator.Choice, len(g.postTypes))
	for i, pt := range g.postTypes {
		typeChoices[i] = generator.Choice{Value: pt.Name, Label: pt.Label}
	}

	return generator.Section{
		Title: "Generate Comments",
		Intro: "Adds comments from existing users to any existing posts.",
		Fields: []generator.Field{
			{
				Key:     KeyAmount,
				Label:   "Number of Comments",
				Kind:    generator.FieldSelect,
				Choices: generator.SimpleChoices(1, 5, 10, 20, 50, 100),
				Usage:   "number of comments to create (1-100)",
			},
			{
				Key:     KeyPostTypeKeys,
				Label:   "In Post Types",
				Kind:    generator.FieldMultiSelect,
				Choices: typeChoices,
				Usage:   "comma-separated post types to comment on",
			},
			{
				Key:    KeyDaysFrom,
				Label:  "Date Range",
				Kind:   generator.FieldNumber,
				Prefix: "From",
				Suffix: "days ago to now.",
				Usage:  "spread comment dates over this many past days (0-3650)",
			},
		},
	}
}

// Describe summarises opts in a sentence, e.g. for the CLI.
func (g *Generator) Describe(opts generator.Options) string {
	keys, _ := opts[KeyPostTypeKeys].([]string)
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, pt := range g.postTypes {
			if pt.Name == k {
				labels = append(labels, pt.Label)
			}
		}
	}
	if len(labels) == 0 {
		return "No post types are selected, so no comments can be generated."
	}
	return fmt.Sprintf("Adds %d %s to %s posts dated up to %d days ago.",
		opts[KeyAmount], plural(toInt(opts[KeyAmount]), "comment", "comments"),
		generator.NaturalJoin(labels), opts[KeyDaysFrom])
}

// Create inserts opts[amount] comments. The first failed insert aborts the
// batch; comments already inserted are kept.
func (g *Generator) Create(ctx context.Context, opts generator.Options, rep generator.Reporter, progress generator.Progress) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	amount := toInt(opts[KeyAmount])
	daysFrom := toInt(opts[KeyDaysFrom])
	types, _ := opts[KeyPostTypeKeys].([]string)

	posts, err := g.store.PublishedPostIDs(ctx, types)
	if err != nil {
		return generator.Fail(rep, "Failed to read posts: "+generator.FormatError(err), err)
	}
	users, err := g.store.Users(ctx)
	if err != nil {
		return generator.Fail(rep, "Failed to read users: "+generator.FormatError(err), err)
	}
	if len(posts) == 0 {
		return generator.Fail(rep, "There are no published posts of the selected types to comment on.", ErrNoPosts)
	}
	if len(users) == 0 {
		return generator.Fail(rep, "There are no users to write comments.", ErrNoUsers)
	}

	count := 0
	finish := func() {
		if progress != nil {
			progress.Finish()
		}
	}

	for i := 0; i < amount; i++ {
		postID := posts[g.rand.Intn(len(posts))]

		var parentID int64
		if g.rand.Intn(100) < replyChance {
			existing, err := g.store.CommentIDs(ctx, postID)
			if err != nil {
				finish()
				return generator.Fail(rep, "Failed to read comments: "+generator.FormatError(err), err)
			}
			if len(existing) > 0 {
				parentID = existing[g.rand.Intn(len(existing))]
			}
		}

		user := users[g.rand.Intn(len(users))]

		c := content.Comment{
			PostID:      postID,
			ParentID:    parentID,
			UserID:      user.ID,
			Author:      user.DisplayName,
			AuthorEmail: user.Email,
			AuthorURL:   "",
			Content:     lipsum.Paragraphs(g.rand, 1, 2),
			Date:        g.randomDate(daysFrom),
			Approved:    true,
		}

		id, err := g.store.InsertComment(ctx, c)
		if err == nil && id == 0 {
			err = errors.New("store returned no comment id")
		}
		if err != nil {
			finish()
			log.Error().Err(err).Int64("post", postID).Int("inserted", count).Msg("Comment insert failed")
			return generator.Fail(rep,
				"Failed to insert comment: "+generator.FormatError(err),
				fmt.Errorf("%w: %w", ErrInsertFailed, err))
		}

		count++
		if progress != nil {
			progress.Tick()
		}
	}
	finish()

	if count > 0 {
		rep.Success(fmt.Sprintf(
			plural(count, "%s test comment has been successfully generated.", "%s test comments have been successfully generated."),
			humanize.Comma(int64(count)),
		))
	}
	return nil
}

// randomDate picks a second uniformly in [now - days, now], in UTC. The
// caller holds g.mu.
func (g *Generator) randomDate(days int) time.Time {
	now := g.now().Unix()
	from := now - int64(days)*86400
	return time.Unix(from+g.rand.Int63n(now-from+1), 0).UTC()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func toInt(v any) int {
	n, _ := v.(int)
	return n
}
