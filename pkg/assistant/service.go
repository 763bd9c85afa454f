package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/llm"
	"github.com/matzehuels/archsketch/pkg/observability"
	"github.com/matzehuels/archsketch/pkg/proposal"
	"github.com/matzehuels/archsketch/pkg/session"
	"github.com/matzehuels/archsketch/pkg/synth"
)

// Transcript replies.
const (
	ReplySuccess      = "Design generated successfully!"
	ReplyServiceError = "An error occurred while generating the design."
	replyInvalidFmt   = "Error generating design: %s"
)

// Outcome is the result of a successful submission.
type Outcome struct {
	SessionID string          `json:"session_id"`
	Diagram   diagram.Diagram `json:"diagram"`
	Report    synth.Report    `json:"report"`
	Reply     string          `json:"reply"`
}

// Service runs submissions against a session store. It is safe for
// concurrent use; a session accepts one submission or edit at a time.
type Service struct {
	Store     session.Store
	Generator llm.Generator
	Engine    *synth.Engine
	Logger    *log.Logger
	Mode      llm.Mode
	TTL       time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option configures a [Service].
type Option func(*Service)

// WithEngine sets the merge engine. The default uses substring matching and
// random ids.
func WithEngine(e *synth.Engine) Option {
	return func(s *Service) { s.Engine = e }
}

// WithMode sets the response mode requested from the generator.
func WithMode(m llm.Mode) Option {
	return func(s *Service) { s.Mode = m }
}

// WithTTL sets how long sessions live after their last update.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.TTL = ttl }
}

// New creates a service. A nil logger uses log.Default(). gen may be nil when
// only [Service.Apply], [Service.Ingest] and edits are needed.
func New(store session.Store, gen llm.Generator, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		Store:     store,
		Generator: gen,
		Logger:    logger,
		Mode:      llm.ModeStructured,
		TTL:       session.DefaultTTL,
		inflight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Engine == nil {
		s.Engine = synth.NewEngine()
	}
	return s
}

// acquire marks a session busy. The returned func releases it.
func (s *Service) acquire(id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return nil, errors.New(errors.ErrCodeBusy, "session %q is already processing a request", id)
	}
	s.inflight[id] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}, nil
}

// Session returns the session, creating an empty one if it does not exist.
// A new session is not saved until something changes.
func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.Store.Get(ctx, id)
	if errors.Is(err, errors.ErrCodeSessionNotFound) {
		return session.New(id, s.TTL)
	}
	return sess, err
}

// Submit asks the generator for a design matching prompt and merges it into
// the session's diagram.
func (s *Service) Submit(ctx context.Context, sessionID, prompt string) (*Outcome, error) {
	return s.Stream(ctx, sessionID, prompt, nil)
}

// Stream is [Service.Submit] with onChunk receiving response text as it
// arrives.
func (s *Service) Stream(ctx context.Context, sessionID, prompt string, onChunk func(string)) (*Outcome, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "prompt cannot be empty")
	}
	if s.Generator == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no generative service configured")
	}

	release, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.AddMessage(session.RoleUser, prompt)

	req := llm.Request{
		Prompt:  prompt,
		Context: sess.Diagram.Summary(),
		Mode:    s.Mode,
		OnChunk: onChunk,
	}
	provider := s.Generator.Name()
	s.Logger.Debug("generating design", "session", sessionID, "provider", provider, "mode", req.Mode)

	observability.Synthesis().OnGenerateStart(ctx, provider, string(req.Mode))
	start := time.Now()
	resp, err := s.Generator.Generate(ctx, req)
	observability.Synthesis().OnGenerateComplete(ctx, provider, string(req.Mode), time.Since(start), err)
	if err != nil {
		s.Logger.Error("generation failed", "session", sessionID, "provider", provider, "error", err)
		s.fail(ctx, sess, ReplyServiceError)
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeService, err, "generate design")
		}
		return nil, err
	}
	s.Logger.Info("generated design", "session", sessionID, "provider", provider,
		"bytes", len(resp.Text), "duration", time.Since(start))

	payload, err := decodeResponse(resp)
	if err != nil {
		s.Logger.Warn("invalid design payload", "session", sessionID, "error", err)
		s.fail(ctx, sess, invalidReply(err))
		return nil, err
	}
	return s.commit(ctx, sess, payload, true)
}

// Apply merges a structured JSON payload without calling the generator.
func (s *Service) Apply(ctx context.Context, sessionID, payload string) (*Outcome, error) {
	p, err := proposal.Decode(payload)
	if err != nil {
		return nil, err
	}
	return s.mergeInto(ctx, sessionID, p)
}

// Ingest merges proposals parsed from free text without calling the
// generator. Text with no recognisable instructions leaves the diagram
// unchanged.
func (s *Service) Ingest(ctx context.Context, sessionID, text string) (*Outcome, error) {
	return s.mergeInto(ctx, sessionID, synth.ParsePayload(text))
}

func (s *Service) mergeInto(ctx context.Context, sessionID string, p proposal.Payload) (*Outcome, error) {
	release, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, sess, p, false)
}

// commit merges p into the session, records the reply and saves.
func (s *Service) commit(ctx context.Context, sess *session.Session, p proposal.Payload, record bool) (*Outcome, error) {
	res := s.Engine.MergePayload(sess.Diagram, p)
	rep := res.Report
	observability.Synthesis().OnMerge(ctx, len(rep.Created), len(rep.Updated), rep.EdgesAdded, len(rep.Dropped))
	s.Logger.Info("merged proposal", "session", sess.ID,
		"created", len(rep.Created), "updated", len(rep.Updated),
		"edges", rep.EdgesAdded, "dropped", len(rep.Dropped))
	for _, c := range rep.Dropped {
		s.Logger.Debug("dropped connection", "from", c.From, "to", c.To)
	}

	reply := strings.TrimSpace(p.Description)
	if reply == "" {
		reply = ReplySuccess
	}
	sess.Diagram = res.Diagram()
	if record {
		sess.AddMessage(session.RoleAssistant, reply)
	}
	sess.Touch(s.TTL)
	if err := s.Store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "save session")
	}
	return &Outcome{SessionID: sess.ID, Diagram: sess.Diagram, Report: rep, Reply: reply}, nil
}

// fail records an error reply. The diagram is not modified.
func (s *Service) fail(ctx context.Context, sess *session.Session, reply string) {
	sess.AddMessage(session.RoleAssistant, reply)
	sess.Touch(s.TTL)
	if err := s.Store.Set(ctx, sess); err != nil {
		s.Logger.Warn("could not save session", "session", sess.ID, "error", err)
	}
}

func decodeResponse(resp llm.Response) (proposal.Payload, error) {
	if !resp.Structured {
		return synth.ParsePayload(resp.Text), nil
	}
	return proposal.Decode(resp.Text)
}

func invalidReply(err error) string {
	return fmt.Sprintf(replyInvalidFmt, errors.UserMessage(err))
}
