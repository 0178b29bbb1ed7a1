package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"tcg/internal/generator"
	"tcg/internal/generator/comments"
)

// describer is implemented by generators that can summarise their options.
type describer interface {
	Describe(opts generator.Options) string
}

func (s *Server) handleGenerateComments(ctx context.Context, req *mcpsdk.CallToolRequest, in GenerateCommentsInput) (*mcpsdk.CallToolResult, RunOutput, error) {
	wf, ok := s.registry.Get(comments.Ident)
	if !ok {
		return nil, RunOutput{}, fmt.Errorf("generator %s is not registered", comments.Ident)
	}

	raw := generator.Input{}
	if in.Amount != nil {
		raw[comments.KeyAmount] = *in.Amount
	}
	if in.PostTypeKeys != nil {
		raw[comments.KeyPostTypeKeys] = in.PostTypeKeys
	}
	if in.DaysFrom != nil {
		raw[comments.KeyDaysFrom] = *in.DaysFrom
	}

	return s.run(ctx, wf, raw, in.Save)
}

// run executes wf non-interactively and converts its outcome to a tool result.
func (s *Server) run(ctx context.Context, wf *generator.Workflow, raw generator.Input, save bool) (*mcpsdk.CallToolResult, RunOutput, error) {
	local := generator.NewNotices()
	opts, err := wf.Run(generator.WithInvocation(ctx), raw, generator.Mode{Save: save, Console: local})

	out := RunOutput{
		Ident:   wf.Generator().Ident(),
		Options: opts,
		Notices: local.Drain(),
	}
	if out.Notices == nil {
		out.Notices = []generator.Notice{}
	}

	if err != nil {
		log.Warn().Err(err).Str("ident", out.Ident).Msg("MCP tool run failed")
		msg := noticeText(out.Notices)
		var reported *generator.ReportedError
		if msg == "" || !errors.As(err, &reported) {
			msg = strings.TrimSpace(msg + "\n" + err.Error())
		}
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleShowOptions(ctx context.Context, req *mcpsdk.CallToolRequest, in ShowOptionsInput) (*mcpsdk.CallToolResult, ShowOptionsOutput, error) {
	var workflows []*generator.Workflow
	if in.Ident == "" {
		workflows = s.registry.All()
	} else {
		wf, ok := s.registry.Get(in.Ident)
		if !ok {
			return nil, ShowOptionsOutput{}, fmt.Errorf("unknown generator: %s", in.Ident)
		}
		workflows = []*generator.Workflow{wf}
	}

	out := ShowOptionsOutput{Generators: make([]GeneratorOptions, 0, len(workflows))}
	for _, wf := range workflows {
		g := wf.Generator()
		entry := GeneratorOptions{Ident: g.Ident(), Command: g.Command(), Options: wf.Options()}
		if d, ok := g.(describer); ok {
			entry.Description = d.Describe(wf.Options())
		}
		out.Generators = append(out.Generators, entry)
	}
	return nil, out, nil
}

func noticeText(notices []generator.Notice) string {
	lines := make([]string, len(notices))
	for i, n := range notices {
		lines[i] = fmt.Sprintf("%s: %s", strings.ToUpper(string(n.Level)), n.Message)
	}
	return strings.Join(lines, "\n")
}
