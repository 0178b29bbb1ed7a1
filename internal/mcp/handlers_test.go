package mcp

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tcg/internal/content"
	"tcg/internal/generator"
	"tcg/internal/generator/comments"
	"tcg/internal/options"
)

func newTestServer(t *testing.T, withContent bool) (*Server, *content.MemoryStore, *options.MemoryStore) {
	t.Helper()
	ctx := context.Background()

	cs := content.NewMemoryStore()
	if withContent {
		if _, err := cs.InsertUser(ctx, content.User{Login: "alice", DisplayName: "Alice", Email: "alice@example.org"}); err != nil {
			t.Fatalf("InsertUser failed: %v", err)
		}
		if _, err := cs.InsertPost(ctx, content.Post{Type: "post", Status: content.StatusPublish, Date: time.Now()}); err != nil {
			t.Fatalf("InsertPost failed: %v", err)
		}
	}

	gen, err := comments.New(ctx, cs)
	if err != nil {
		t.Fatalf("comments.New failed: %v", err)
	}
	store := options.NewMemoryStore()
	reg := generator.NewRegistry(store, nil)
	if _, err := reg.Initialize(ctx, gen); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return NewServer(reg, "test"), cs, store
}

func intPtr(n int) *int { return &n }

func TestHandleGenerateComments(t *testing.T) {
	s, cs, store := newTestServer(t, true)

	res, out, err := s.handleGenerateComments(context.Background(), nil, GenerateCommentsInput{
		Amount:       intPtr(500),
		PostTypeKeys: []string{"post", "page", "bogus"},
		DaysFrom:     intPtr(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != nil && res.IsError {
		t.Fatalf("unexpected tool error: %+v", res)
	}

	if out.Options[comments.KeyAmount] != 100 {
		t.Errorf("expected amount clamped to 100, got %v", out.Options[comments.KeyAmount])
	}
	if keys, _ := out.Options[comments.KeyPostTypeKeys].([]string); !slices.Equal(keys, []string{"post"}) {
		t.Errorf("expected only valid post types, got %v", keys)
	}
	if got := len(cs.Comments()); got != 100 {
		t.Errorf("expected 100 comments, got %d", got)
	}
	if len(out.Notices) != 1 || !strings.Contains(out.Notices[0].Message, "100 test comments") {
		t.Errorf("unexpected notices: %+v", out.Notices)
	}
	if store.Writes() != 0 {
		t.Error("options should not be saved without save")
	}
}

func TestHandleGenerateComments_SaveAndDefaults(t *testing.T) {
	s, cs, store := newTestServer(t, true)

	_, out, err := s.handleGenerateComments(context.Background(), nil, GenerateCommentsInput{Save: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Options[comments.KeyAmount] != 1 || out.Options[comments.KeyDaysFrom] != 60 {
		t.Errorf("expected defaults, got %v", out.Options)
	}
	if len(cs.Comments()) != 1 {
		t.Errorf("expected 1 comment, got %d", len(cs.Comments()))
	}

	blob, _ := store.Get(context.Background(), comments.Ident)
	var saved map[string]any
	if err := json.Unmarshal(blob, &saved); err != nil {
		t.Fatalf("saved options unreadable: %v", err)
	}
	if saved[comments.KeyDaysFrom] != float64(60) {
		t.Errorf("unexpected saved options: %v", saved)
	}
}

func TestHandleGenerateComments_Failure(t *testing.T) {
	s, _, _ := newTestServer(t, false)

	res, out, err := s.handleGenerateComments(context.Background(), nil, GenerateCommentsInput{})
	if err != nil {
		t.Fatalf("failure should be a tool result, got error: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatal("expected an error result")
	}
	text := res.Content[0].(*mcpsdk.TextContent).Text
	if !strings.Contains(text, "ERROR: There are no published posts") {
		t.Errorf("unexpected error text: %q", text)
	}
	if len(out.Notices) != 1 || out.Notices[0].Level != generator.LevelError {
		t.Errorf("expected one error notice, got %+v", out.Notices)
	}
}

func TestHandleShowOptions(t *testing.T) {
	s, _, _ := newTestServer(t, false)

	_, out, err := s.handleShowOptions(context.Background(), nil, ShowOptionsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Generators) != 1 {
		t.Fatalf("expected one generator, got %d", len(out.Generators))
	}
	g := out.Generators[0]
	if g.Ident != comments.Ident || g.Command != comments.Command {
		t.Errorf("unexpected generator: %+v", g)
	}
	if !strings.Contains(g.Description, "Adds 1 comment to Post posts") {
		t.Errorf("unexpected description: %q", g.Description)
	}

	if _, _, err := s.handleShowOptions(context.Background(), nil, ShowOptionsInput{Ident: "widgets"}); err == nil {
		t.Error("expected unknown generator to fail")
	}
}

func TestServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s, cs, _ := newTestServer(t, true)

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.sdk.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{toolGenerateComments, toolShowOptions}) {
		t.Errorf("unexpected tools: %v", names)
	}

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      toolGenerateComments,
		Arguments: map[string]any{"amount": 4},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	if got := len(cs.Comments()); got != 4 {
		t.Errorf("expected 4 comments, got %d", got)
	}
}
