package score

import (
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/calculus"
	"github.com/roach88/mpn/internal/composer"
	"github.com/roach88/mpn/internal/harmony"
	"github.com/roach88/mpn/internal/instrument"
	"github.com/roach88/mpn/internal/leitmotif"
)

// Activation dynamics for actors that are not speaking.
const (
	ActivationDecay     = 0.1
	EchoThreshold       = 0.3
	ReferenceEdgeWeight = 0.2
	graphRadius         = 5.0
)

// Harmony tension blend: the written chord against the state.
const (
	chordTensionWeight = 0.4
	stateTensionWeight = 0.6
)

type stave struct {
	profile    actor.Profile
	instrument string
	activation float64
	speaking   bool
}

// Orchestrator turns script frames into multi-actor score snapshots.
type Orchestrator struct {
	mu       sync.Mutex
	logger   *slog.Logger
	composer *composer.Composer
	registry *leitmotif.Registry
	clock    *FrameClock

	order       []string // actor IDs in registration order
	staves      map[string]*stave
	adjustments calculus.Adjustments
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for degraded-input diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithComposer replaces the composer. It overrides WithMode and WithSeed
// when given after them.
func WithComposer(c *composer.Composer) Option {
	return func(o *Orchestrator) { o.composer = c }
}

// WithRegistry shares a leitmotif registry with other components.
func WithRegistry(r *leitmotif.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithSeed seeds the composer's variation source.
func WithSeed(seed uint64) Option {
	return func(o *Orchestrator) {
		mode := o.composer.Mode()
		enabled, temp := o.composer.AIConfig()
		o.composer = composer.New(composer.WithSeed(seed), composer.WithMode(mode), composer.WithAI(enabled, temp))
	}
}

// WithMode sets the initial orchestration mode.
func WithMode(m composer.Mode) Option {
	return func(o *Orchestrator) { o.composer.SetMode(m) }
}

// WithClock resumes frame numbering from an existing clock.
func WithClock(c *FrameClock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// New creates an Orchestrator with no actors at frame 0.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:   slog.Default(),
		composer: composer.New(),
		registry: leitmotif.NewRegistry(),
		clock:    NewFrameClock(),
		staves:   make(map[string]*stave),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RegisterActor adds p, or replaces the profile of an actor with the same
// ID, and assigns its instrument. The actor's leitmotif is created on first
// registration and kept on later ones.
func (o *Orchestrator) RegisterActor(p actor.Profile) {
	if errs := actor.Validate(p); len(errs) > 0 {
		o.logger.Debug("actor profile normalized", "actor", p.ID, "issues", len(errs), "first", errs[0].Error())
	}
	p = actor.Normalize(p)

	o.mu.Lock()
	defer o.mu.Unlock()

	inst := instrument.Select(p)
	o.registry.Ensure(p)
	if s, ok := o.staves[p.ID]; ok {
		s.profile = p
		s.instrument = inst
		return
	}
	o.order = append(o.order, p.ID)
	o.staves[p.ID] = &stave{profile: p, instrument: inst}
}

// Actors returns the registered profiles in registration order.
func (o *Orchestrator) Actors() []actor.Profile {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]actor.Profile, len(o.order))
	for i, id := range o.order {
		out[i] = o.staves[id].profile
	}
	return out
}

// Instrument returns the instrument assigned to actorID.
func (o *Orchestrator) Instrument(actorID string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.staves[actorID]
	if !ok {
		return "", false
	}
	return s.instrument, true
}

// Registry returns the leitmotif registry backing this orchestrator.
func (o *Orchestrator) Registry() *leitmotif.Registry {
	return o.registry
}

// FrameIndex returns the index the next processed frame will carry.
func (o *Orchestrator) FrameIndex() int64 {
	return o.clock.Current()
}

// SetOrchestrationMode changes the voicing style for later frames.
func (o *Orchestrator) SetOrchestrationMode(m composer.Mode) {
	o.composer.SetMode(m)
}

// SetAIConfig toggles wider melodic variation. Temperature is clamped to
// [0,1].
func (o *Orchestrator) SetAIConfig(enabled bool, temperature float64) {
	o.composer.SetAIConfig(enabled, temperature)
}

// Reset rewinds to frame 0 and silences every actor. Registrations and
// leitmotifs are kept.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clock.Reset()
	for _, s := range o.staves {
		s.activation = 0
		s.speaking = false
	}
}

// UpdateAdjustments merges a into the active parameter adjustments. An
// entry in a replaces the active entry with the same ID. Adjustments apply
// from the next frame on and survive Reset.
func (o *Orchestrator) UpdateAdjustments(a calculus.Adjustments) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.adjustments = o.adjustments.Merge(a)
}

// Adjustments returns a copy of the active parameter adjustments.
func (o *Orchestrator) Adjustments() calculus.Adjustments {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.adjustments.Clone()
}

// ProcessFrame renders one frame. trauma and entropy are clamped to [0,1].
func (o *Orchestrator) ProcessFrame(f Frame, trauma, entropy float64) Output {
	trauma = actor.Clamp01(trauma)
	entropy = actor.Clamp01(entropy)

	rsi := calculus.AnalyzeRSI(f.Text)
	if rsi.Sum() == 0 && f.Analysis != "" {
		rsi = calculus.AnalyzeRSI(f.Analysis)
	}
	state := actor.State{Trauma: trauma, Entropy: entropy, RSI: rsi}

	o.mu.Lock()
	defer o.mu.Unlock()

	params := calculus.PsychometricToMusical(state, calculus.WithAdjustments(o.adjustments))

	speakerID := o.resolveSpeakerLocked(f.Speaker)
	if speakerID == "" && strings.TrimSpace(f.Speaker) != "" {
		o.logger.Debug("unknown speaker, frame has no active stave", "speaker", f.Speaker)
	}

	var kind leitmotif.Kind
	staves := make([]Stave, 0, len(o.order))
	for _, id := range o.order {
		s := o.staves[id]
		actorParams := o.actorParams(s, state)

		out := Stave{
			ActorID:    id,
			ActorName:  s.profile.Name,
			Instrument: s.instrument,
			Params:     actorParams,
		}

		if id == speakerID {
			s.speaking = true
			s.activation = 1
			kind = leitmotif.SelectTransformation(trauma, entropy, rsi)
			m, ok := o.registry.Apply(id, kind)
			if !ok {
				o.registry.Ensure(s.profile)
				m, _ = o.registry.Apply(id, kind)
			}
			out.Leitmotif = m
			out.Notes = o.composer.ComposeMelody(m, actorParams, FrameBeats, 0, trauma)
		} else {
			s.speaking = false
			s.activation = roundTo(max(0, s.activation-ActivationDecay), 3)
			m, _ := o.registry.Peek(id)
			out.Leitmotif = m
			if s.activation > EchoThreshold {
				m, _ = o.registry.Get(id)
				echo := actorParams
				echo.Dynamic /= 2
				out.Notes = o.composer.ComposeMelody(m, echo, FrameBeats, 0, trauma*0.5)
			}
		}
		out.IsSpeaking = s.speaking
		out.Activation = s.activation
		if out.Notes == nil {
			out.Notes = []composer.Note{}
		}
		staves = append(staves, out)
	}

	force := calculus.ScriptForce(f.Chord, f.Analysis)
	idx := o.clock.Next()
	return Output{
		FrameIndex:     idx,
		TimestampMS:    idx * FrameDurationMS,
		Speaker:        speakerID,
		Transformation: kind,
		RSI:            rsi,
		Global: Global{
			Tempo:         params.Tempo,
			TimeSignature: params.TimeSignature,
			Key:           params.Key,
			Mode:          calculus.ModalShade(rsi, trauma),
			Dynamics:      params.DynamicLabel,
			Velocity:      params.Dynamic,
			Articulation:  params.Articulation,
			Level:         composer.OrchestrationLevel(trauma, entropy),
			Orchestration: o.composer.Mode(),
			Libido:        force.Libido,
			Emotion:       calculus.EmotionFor(state),
		},
		Staves:  staves,
		Harmony: o.voiceHarmony(f.Chord, params),
		Graph:   o.graphLocked(speakerID, rsi),
	}
}

// resolveSpeakerLocked finds the actor named by speaker, matching either
// the actor ID ("Queen Gertrude" matches "queen_gertrude") or the display
// name, case-insensitively. It returns "" when nobody matches.
func (o *Orchestrator) resolveSpeakerLocked(speaker string) string {
	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		return ""
	}
	asID := strings.ReplaceAll(strings.ToLower(speaker), " ", "_")
	for _, id := range o.order {
		if id == speaker || id == asID || strings.EqualFold(o.staves[id].profile.Name, speaker) {
			return id
		}
	}
	return ""
}

// actorParams maps the frame state through the actor's own traits and pins
// the instrument to the one assigned at registration.
func (o *Orchestrator) actorParams(s *stave, frame actor.State) calculus.MusicalParams {
	st := frame
	st.DISC = s.profile.DISC
	st.DarkTriad = s.profile.DarkTriad
	st.Biases = s.profile.Biases
	p := calculus.PsychometricToMusical(st, calculus.WithAdjustments(o.adjustments))
	p.Instrument = s.instrument
	if in, ok := instrument.Lookup(s.instrument); ok {
		p.InstrumentFamily = string(in.Family)
	}
	return p
}

// voiceHarmony voices the frame's written chord, or the chord implied by
// the state when the script has none or it cannot be read.
func (o *Orchestrator) voiceHarmony(symbol string, params calculus.MusicalParams) Harmony {
	chord := harmony.ParseChord(symbol)
	if !chord.Recognized {
		if strings.TrimSpace(symbol) != "" {
			o.logger.Debug("unreadable chord, using state harmony", "chord", symbol)
		}
		chord = harmony.ParseChordWithRoot(params.ChordRoot, params.ChordType)
	}
	if !chord.HasRoot {
		if pc, ok := harmony.ParsePitchClass(params.ChordRoot); ok {
			chord.Root = pc
		}
	}

	chordType := chordTypeName(chord)
	numeral := RomanNumeral(chordType, params.Key)
	tension := actor.Clamp01(chordTensionWeight*calculus.ChordToTension(symbol) + stateTensionWeight*params.Tension)

	return Harmony{
		Chord:        chord.Name(),
		Root:         harmony.PitchClassName(chord.Root),
		Type:         chordType,
		RomanNumeral: numeral,
		Function:     HarmonicFunction(numeral),
		Tension:      tension,
		Notes:        o.composer.Voice(chord, params, 0, FrameBeats),
	}
}

var conceptNodes = []Node{
	{ID: "real", Label: "Real", X: 0, Y: 5, Type: NodeConcept},
	{ID: "symbolic", Label: "Symbolic", X: -4, Y: -3, Type: NodeConcept},
	{ID: "imaginary", Label: "Imaginary", X: 4, Y: -3, Type: NodeConcept},
}

func (o *Orchestrator) graphLocked(speakerID string, rsi actor.RSI) Graph {
	g := Graph{Nodes: make([]Node, 0, len(o.order)+len(conceptNodes)), Edges: []Edge{}}
	n := float64(len(o.order))
	for i, id := range o.order {
		s := o.staves[id]
		angle := 2 * math.Pi * float64(i) / n
		g.Nodes = append(g.Nodes, Node{
			ID:         id,
			Label:      s.profile.Name,
			X:          roundTo(graphRadius*math.Cos(angle), 3),
			Y:          roundTo(graphRadius*math.Sin(angle), 3),
			Activation: roundTo(s.activation, 3),
			Type:       NodeActor,
		})
	}

	weights := map[string]float64{"real": rsi.Real, "symbolic": rsi.Symbolic, "imaginary": rsi.Imaginary}
	for _, c := range conceptNodes {
		c.Activation = roundTo(weights[c.ID], 3)
		g.Nodes = append(g.Nodes, c)
	}

	if speakerID == "" {
		return g
	}
	for _, c := range conceptNodes {
		if w := weights[c.ID]; w > ReferenceEdgeWeight {
			g.Edges = append(g.Edges, Edge{Source: speakerID, Target: c.ID, Type: EdgeReference, Weight: roundTo(w, 3)})
		}
	}
	for _, id := range o.order {
		if id == speakerID {
			continue
		}
		if a := o.staves[id].activation; a > EchoThreshold {
			g.Edges = append(g.Edges, Edge{Source: speakerID, Target: id, Type: EdgeSpeech, Weight: roundTo(a, 3)})
		}
	}
	return g
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
