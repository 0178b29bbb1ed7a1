package mcp

import (
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tcg/internal/generator"
)

const (
	toolGenerateComments = "generate_comments"
	toolShowOptions      = "show_options"
)

// GenerateCommentsInput mirrors the comment generator settings. Omitted
// values fall back to the generator defaults.
type GenerateCommentsInput struct {
	Amount       *int     `json:"amount,omitempty" jsonschema:"number of comments to create, 1 to 100"`
	PostTypeKeys []string `json:"post_type_keys,omitempty" jsonschema:"post types to comment on, e.g. post"`
	DaysFrom     *int     `json:"days_from,omitempty" jsonschema:"spread comment dates over this many past days, 0 to 3650"`
	Save         bool     `json:"save,omitempty" jsonschema:"persist these options as the new defaults"`
}

// ShowOptionsInput selects the generator whose options are shown.
type ShowOptionsInput struct {
	Ident string `json:"ident,omitempty" jsonschema:"generator ident or command; all generators when empty"`
}

// RunOutput reports the effective options and the messages of a run.
type RunOutput struct {
	Ident   string             `json:"ident"`
	Options map[string]any     `json:"options"`
	Notices []generator.Notice `json:"notices"`
}

// ShowOptionsOutput lists current options per generator ident.
type ShowOptionsOutput struct {
	Generators []GeneratorOptions `json:"generators"`
}

type GeneratorOptions struct {
	Ident       string         `json:"ident"`
	Command     string         `json:"command"`
	Options     map[string]any `json:"options"`
	Description string         `json:"description,omitempty"`
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name: toolGenerateComments,
		Description: "Generate test comments from existing users on existing published posts. " +
			"Values are sanitised: out-of-range numbers are clamped and unknown post types dropped. " +
			"Returns the options actually used and the outcome messages.",
	}, s.handleGenerateComments)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        toolShowOptions,
		Description: "Show the options each generator currently uses by default.",
	}, s.handleShowOptions)
}
