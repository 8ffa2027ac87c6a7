package invoice

import (
	"errors"
	"sync/atomic"
	"time"
)

// Validation and re-entry errors surfaced before any computation starts.
var (
	ErrNoItems              = errors.New("invoice: no items selected")
	ErrClientRequired       = errors.New("invoice: client name and phone are required")
	ErrGenerationInProgress = errors.New("invoice: a generation is already in progress")
)

// State is the generation lifecycle of one Generator. A single
// check-and-transition guard on the state prevents two overlapping runs
// from producing documents with divergent identifiers.
type State int32

const (
	StateIdle State = iota
	StateGenerating
	StateDone
	StateError
)

// Request bundles everything one generation run consumes.
type Request struct {
	Lines   []SelectedLine
	Client  ClientInfo
	Details Details
}

// Generator runs the full pipeline: validate, compute totals, plan the
// layout, render, finalize. The pipeline is synchronous and CPU-bound;
// cancellation mid-run is not supported.
type Generator struct {
	shop  ShopInfo
	refs  *ReferenceGenerator
	state atomic.Int32
}

func NewGenerator(shop ShopInfo, refs *ReferenceGenerator) *Generator {
	if refs == nil {
		refs = NewReferenceGenerator(nil, nil)
	}
	return &Generator{shop: shop, refs: refs}
}

// State reports the current lifecycle state.
func (g *Generator) State() State {
	return State(g.state.Load())
}

// Generate produces the invoice artifact for the request. Validation
// failures are rejected before anything is computed or drawn; a rendering
// failure discards the in-progress document and resets the state so a
// retry is possible. A second call while one is in flight is refused.
func (g *Generator) Generate(req Request) (*Artifact, error) {
	if !g.enter() {
		return nil, ErrGenerationInProgress
	}

	artifact, err := g.run(req)
	if err != nil {
		g.state.Store(int32(StateError))
		return nil, err
	}
	g.state.Store(int32(StateDone))
	return artifact, nil
}

// enter is the single guarded transition into StateGenerating. Any
// settled state (idle, done, error) may start a new run.
func (g *Generator) enter() bool {
	for {
		cur := g.state.Load()
		if State(cur) == StateGenerating {
			return false
		}
		if g.state.CompareAndSwap(cur, int32(StateGenerating)) {
			return true
		}
	}
}

func (g *Generator) run(req Request) (*Artifact, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoItems
	}
	if req.Client.Name == "" || req.Client.Phone == "" {
		return nil, ErrClientRequired
	}

	d := g.fillDefaults(req.Details)
	totals := Calculate(req.Lines, d)
	plan := PlanDocument(totals, d, len(req.Lines))

	doc, err := renderDocument(g.shop, req.Client, d, req.Lines, totals, plan)
	if err != nil {
		return nil, err
	}

	return finalize(doc, d.InvoiceNumber, req.Client.Name)
}

// fillDefaults generates missing references and stamps the issue date.
// Both numbers stay operator-editable; only blanks are filled.
func (g *Generator) fillDefaults(d Details) Details {
	if d.InvoiceNumber == "" {
		d.InvoiceNumber = g.refs.Next(PrefixInvoice)
	}
	if d.OrderNumber == "" {
		d.OrderNumber = g.refs.Next(PrefixOrder)
	}
	if d.IssueDate == "" {
		d.IssueDate = time.Now().Format("02 Jan 2006")
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = StatusPending
	}
	if len(d.Terms) == 0 {
		d.Terms = DefaultTerms
	}
	return d
}
