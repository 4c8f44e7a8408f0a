// Package tools implements the biodiversity query tools exposed to
// assistant clients: per-tool argument shaping, upstream calls through the
// rate-governed client, and response normalization into compact records.
package tools

import (
	"context"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/biolens/biolens/internal/errors"
	"github.com/biolens/biolens/internal/inat"
)

// Handler executes a tool against raw, JSON-decoded arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Schema is a JSON-Schema fragment describing a tool's arguments.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Default     any                `json:"default,omitempty"`
}

// Tool describes one named operation and how to run it.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	InputSchema Schema  `json:"input_schema"`
	Handler     Handler `json:"-"`
}

// Service carries the collaborators every tool handler needs.
type Service struct {
	Client   *inat.Client
	Resolver *inat.Resolver
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Registry holds the tool dispatch table in catalog order.
type Registry struct {
	service *Service
	tools   map[string]*Tool
	order   []string
}

// NewRegistry builds the dispatch table for all nine tools.
func NewRegistry(service *Service) *Registry {
	r := &Registry{
		service: service,
		tools:   make(map[string]*Tool),
	}
	r.register(service.searchObservationsTool())
	r.register(service.speciesCountsTool())
	r.register(service.searchTaxaTool())
	r.register(service.getTaxonTool())
	r.register(service.searchPlacesTool())
	r.register(service.nearbyPlacesTool())
	r.register(service.searchProjectsTool())
	r.register(service.similarSpeciesTool())
	r.register(service.fanOutSearchTool())
	return r
}

func (r *Registry) register(t *Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Tools returns every registered tool in catalog order.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Call dispatches one tool invocation. Errors are always coded; they are
// scoped to this invocation and never fatal to the process.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, apperrors.NewNotFoundError("unknown tool %q", name)
	}

	callID := uuid.New().String()
	started := r.service.now()
	result, err := tool.Handler(ctx, args)
	elapsed := r.service.now().Sub(started)

	logger := r.service.log()
	if err != nil {
		logger.Warn("tool call failed",
			zap.String("tool", name),
			zap.String("call_id", callID),
			zap.String("error_code", apperrors.CodeOf(err)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	logger.Info("tool call completed",
		zap.String("tool", name),
		zap.String("call_id", callID),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// decodeArgs maps raw arguments onto a typed parameter struct. Unknown keys
// and un-coercible values fail validation before any network call.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return apperrors.NewInternalError("failed to build argument decoder: " + err.Error())
	}
	if err := decoder.Decode(args); err != nil {
		return apperrors.NewValidationError("invalid arguments: %v", err)
	}
	return nil
}

// entityRef is a name-or-id reference. It is resolved to a single canonical
// id before query construction: an explicit id always wins and skips the
// resolver round-trip entirely.
type entityRef struct {
	id   int64
	name string
}

func (r entityRef) empty() bool {
	return r.id <= 0 && r.name == ""
}

func (r entityRef) canonicalID(ctx context.Context, resolve func(context.Context, string) (inat.ResolvedID, error)) (int64, error) {
	if r.id > 0 {
		return r.id, nil
	}
	if r.name != "" {
		resolved, err := resolve(ctx, r.name)
		if err != nil {
			return 0, err
		}
		return resolved.ID, nil
	}
	return 0, nil
}
