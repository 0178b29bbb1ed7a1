package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"tcg/internal/generator"
)

type navItem struct {
	Command string
	Title   string
}

type fieldView struct {
	generator.Field
	Choices []generator.Choice
	Value   string
	Size    int
}

type pageData struct {
	Command    string
	Section    generator.Section
	Fields     []fieldView
	Generators []navItem
	Notices    []generator.Notice
}

type runRequest struct {
	Options generator.Input `json:"options"`
	Save    bool            `json:"save"`
}

type runResponse struct {
	Ident   string             `json:"ident"`
	Options generator.Options  `json:"options"`
	Notices []generator.Notice `json:"notices"`
	Error   string             `json:"error,omitempty"`
}

type generatorInfo struct {
	Ident   string            `json:"ident"`
	Command string            `json:"command"`
	Title   string            `json:"title"`
	Options generator.Options `json:"options"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	all := s.registry.All()
	if len(all) == 0 {
		http.Error(w, "no generators registered", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/generators/"+all[0].Generator().Command(), http.StatusFound)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) error {
	wf, ok := s.registry.Get(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return nil
	}

	section := wf.Generator().Settings()
	current := wf.Options()

	data := pageData{
		Command:    wf.Generator().Command(),
		Section:    section,
		Generators: s.nav(),
		Notices:    s.registry.Notices().Drain(),
	}
	for _, f := range section.Fields {
		v := fieldView{Field: f, Value: fmt.Sprint(current[f.Key])}
		if f.Kind != generator.FieldNumber {
			v.Choices = generator.MakeChoices(f.Choices, current[f.Key])
			v.Size = min(max(len(f.Choices), 2), 8)
		}
		data.Fields = append(data.Fields, v)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.tmpl.ExecuteTemplate(w, "settings.html", data)
}

// handleSubmit runs the generator with the posted form. Outcome notices are
// shown by the settings page the browser is redirected to.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) error {
	wf, ok := s.registry.Get(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return nil
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil
	}

	in := formInput(wf.Generator().Settings(), r)
	ctx := generator.WithInvocation(r.Context())
	if _, err := wf.Run(ctx, in, generator.Mode{Interactive: true}); err != nil {
		var reported *generator.ReportedError
		if !errors.As(err, &reported) {
			s.registry.Notices().Error(err.Error())
		}
	}

	http.Redirect(w, r, "/generators/"+wf.Generator().Command(), http.StatusSeeOther)
	return nil
}

// formInput maps posted values to raw generator input. Fields absent from the
// form are left out so sanitising falls back to defaults.
func formInput(section generator.Section, r *http.Request) generator.Input {
	in := generator.Input{}
	for _, f := range section.Fields {
		values, present := r.PostForm[f.Key]
		if !present {
			continue
		}
		if f.Kind == generator.FieldMultiSelect {
			in[f.Key] = values
			continue
		}
		in[f.Key] = r.PostForm.Get(f.Key)
	}
	return in
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all := s.registry.All()
	out := make([]generatorInfo, 0, len(all))
	for _, wf := range all {
		g := wf.Generator()
		out = append(out, generatorInfo{
			Ident:   g.Ident(),
			Command: g.Command(),
			Title:   g.Settings().Title,
			Options: wf.Options(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRun runs a generator non-interactively from a JSON body.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) error {
	wf, ok := s.registry.Get(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown generator: "+r.PathValue("name"))
		return nil
	}

	var req runRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return nil
		}
	}
	if req.Options == nil {
		req.Options = generator.Input{}
	}

	// Request-local notices carry this run's messages back in the response.
	local := generator.NewNotices()
	ctx := generator.WithInvocation(r.Context())
	opts, err := wf.Run(ctx, req.Options, generator.Mode{Save: req.Save, Console: local})

	resp := runResponse{Ident: wf.Generator().Ident(), Options: opts, Notices: local.Drain()}
	if resp.Notices == nil {
		resp.Notices = []generator.Notice{}
	}
	if err != nil {
		log.Warn().Err(err).Str("ident", resp.Ident).Msg("API run failed")
		resp.Error = err.Error()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return nil
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (s *Server) nav() []navItem {
	all := s.registry.All()
	out := make([]navItem, len(all))
	for i, wf := range all {
		out[i] = navItem{Command: wf.Generator().Command(), Title: wf.Generator().Settings().Title}
	}
	return out
}
