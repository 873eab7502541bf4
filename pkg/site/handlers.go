package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/dom"
	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/formdef"
	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/orchestrator"
	"github.com/goliatone/go-formcheck/pkg/render"
)

const (
	pageRenderer   = "html"
	schemaRenderer = "openapi"
)

var errBadRequest = errors.New("site: bad request")

// SubmitResponse is the JSON body answered to API submissions.
type SubmitResponse struct {
	Form      string            `json:"form"`
	Outcome   form.Outcome      `json:"outcome"`
	Record    *form.Record      `json:"record,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	FormError string            `json:"formError,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func (s *Server) pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, name, http.StatusOK, render.RenderOptions{})
	}
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, chi.URLParam(r, "name"), http.StatusOK, render.RenderOptions{})
}

func (s *Server) listForms(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"forms": s.orch.Forms()})
}

func (s *Server) showSchema(w http.ResponseWriter, r *http.Request) {
	renderer, err := s.orch.Renderer(schemaRenderer)
	if err != nil {
		s.writeError(w, r, false, err)
		return
	}
	out, err := s.orch.Generate(r.Context(), orchestrator.Request{
		Form:     chi.URLParam(r, "name"),
		Renderer: schemaRenderer,
	})
	if err != nil {
		s.writeError(w, r, true, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	_, _ = w.Write(out)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, status int, options render.RenderOptions) {
	renderer, err := s.orch.Renderer(pageRenderer)
	if err != nil {
		s.writeError(w, r, false, err)
		return
	}
	if options.Action == "" {
		options.Action = "/forms/" + url.PathEscape(name)
	}
	out, err := s.orch.Generate(r.Context(), orchestrator.Request{
		Form:          name,
		Renderer:      pageRenderer,
		RenderOptions: options,
	})
	if err != nil {
		s.writeError(w, r, false, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	asJSON := wantsJSON(r)

	def, err := s.orch.Form(ctx, name)
	if err != nil {
		s.writeError(w, r, asJSON, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	values, err := decodeSubmission(r, def)
	if err != nil {
		s.writeError(w, r, asJSON, err)
		return
	}

	sub, err := s.evaluate(ctx, def, values)
	if err != nil {
		s.writeError(w, r, asJSON, err)
		return
	}

	status := statusForOutcome(sub.result.Outcome)
	if asJSON {
		resp := SubmitResponse{
			Form:      def.Name,
			Outcome:   sub.result.Outcome,
			Errors:    sub.result.Messages,
			FormError: sub.formError,
			Message:   strings.Join(sub.notices, " "),
		}
		if sub.result.Outcome == form.OutcomeSubmitted {
			record := sub.result.Record
			resp.Record = &record
		}
		s.writeJSON(w, status, resp)
		return
	}

	options := render.RenderOptions{Notice: strings.Join(sub.notices, " ")}
	if sub.result.Outcome != form.OutcomeSubmitted {
		options.Values = values
		options.Errors = sub.result.Messages
		options.FormError = sub.formError
	}
	s.renderPage(w, r, name, status, options)
}

type submission struct {
	result    form.SubmitResult
	notices   []string
	formError string
}

// evaluate binds a controller to a freshly rendered page, writes the submitted
// values into its controls and submits, so the outcome matches what the page
// itself would show. Values bypass the markup so the record keeps them verbatim.
func (s *Server) evaluate(ctx context.Context, def model.FormModel, values map[string]string) (submission, error) {
	renderer, err := s.orch.Renderer(pageRenderer)
	if err != nil {
		return submission{}, err
	}
	page, err := renderer.Render(ctx, def, render.RenderOptions{})
	if err != nil {
		return submission{}, fmt.Errorf("site: render %s: %w", def.Name, err)
	}
	doc, err := dom.Parse(bytes.NewReader(page))
	if err != nil {
		return submission{}, fmt.Errorf("site: parse %s: %w", def.Name, err)
	}

	var sub submission
	ctrl, err := form.Bind(doc, def,
		form.WithLogger(s.logger.With(zap.String("form", def.Name))),
		form.WithObserver(s.collector),
		form.WithSubmitter(s.submitter),
		form.WithNotifier(form.NotifierFunc(func(_ context.Context, message string) error {
			sub.notices = append(sub.notices, message)
			return nil
		})),
	)
	if err != nil {
		return submission{}, fmt.Errorf("site: bind %s: %w", def.Name, err)
	}
	defer ctrl.Dispose()

	for _, field := range def.Fields {
		if value, ok := values[field.Name]; ok {
			doc.GetElementByID(field.Name).SetValue(value)
		}
	}

	sub.result, err = ctrl.Submit(ctx)
	if err != nil {
		return submission{}, fmt.Errorf("site: submit %s: %w", def.Name, err)
	}
	if def.ErrorID != "" {
		if el := doc.GetElementByID(def.ErrorID); el != nil {
			sub.formError = el.Text()
		}
	}
	return sub, nil
}

func decodeSubmission(r *http.Request, def model.FormModel) (map[string]string, error) {
	values := make(map[string]string, len(def.Fields))

	if isJSON(r.Header.Get("Content-Type")) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", errBadRequest, err)
		}
		for _, field := range def.Fields {
			raw, ok := payload[field.Name]
			if !ok || raw == nil {
				continue
			}
			value, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q must be a string", errBadRequest, field.Name)
			}
			values[field.Name] = value
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: parse form: %w", errBadRequest, err)
	}
	for _, field := range def.Fields {
		values[field.Name] = r.PostForm.Get(field.Name)
	}
	return values, nil
}

func statusForOutcome(outcome form.Outcome) int {
	switch outcome {
	case form.OutcomeBlocked:
		return http.StatusUnprocessableEntity
	case form.OutcomeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func statusForError(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, formdef.ErrUnknownForm), errors.Is(err, render.ErrRendererNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, asJSON bool, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}

	message := http.StatusText(status)
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	if asJSON {
		s.writeJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func wantsJSON(r *http.Request) bool {
	return isJSON(r.Header.Get("Content-Type")) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
