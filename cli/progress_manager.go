package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pterm/pterm"
)

type progressSpinner interface {
	Stop() error
	Success(...any)
	Fail(...any)
	UpdateText(string)
}

type progressSpinnerFactory func(string) (progressSpinner, error)

var defaultSpinnerFactory progressSpinnerFactory = func(text string) (progressSpinner, error) {
	spinner, err := pterm.DefaultSpinner.
		WithRemoveWhenDone(false).
		WithText(text).
		Start()
	if err != nil {
		return nil, err
	}
	return spinner, nil
}

// StepStatus is the state of a progress step.
type StepStatus int

const (
	// StepPending indicates a step has not yet started.
	StepPending StepStatus = iota
	// StepRunning indicates a step is in progress.
	StepRunning
	// StepCompleted indicates a step finished successfully.
	StepCompleted
	// StepFailed indicates a step failed.
	StepFailed
)

// Step is one stage of a command, such as loading the scenario or rendering the animation.
type Step struct {
	ID      string
	Message string
	Status  StepStatus
	// Detail is appended to the completion line when set.
	Detail    string
	startTime time.Time
}

// ProgressManager shows a spinner per step while a command runs its stages in order.
type ProgressManager struct {
	steps          []*Step
	stepMap        map[string]*Step
	currentSpinner progressSpinner
	spinnerFactory progressSpinnerFactory
	clock          clock.Clock
	out            io.Writer
	mu             sync.Mutex
	disabled       bool
}

// ProgressManagerOption customizes a ProgressManager at creation time.
type ProgressManagerOption func(*ProgressManager)

// WithProgressOutput enables or disables terminal output.
func WithProgressOutput(enabled bool) ProgressManagerOption {
	return func(pm *ProgressManager) {
		pm.disabled = !enabled
	}
}

func withProgressSpinnerFactory(factory progressSpinnerFactory) ProgressManagerOption {
	return func(pm *ProgressManager) {
		pm.spinnerFactory = factory
	}
}

func withProgressClock(clk clock.Clock) ProgressManagerOption {
	return func(pm *ProgressManager) {
		pm.clock = clk
	}
}

// NewProgressManager registers every step upfront. Failures without an active spinner are
// written to out.
func NewProgressManager(out io.Writer, steps []*Step, opts ...ProgressManagerOption) *ProgressManager {
	pterm.Success.Prefix = pterm.Prefix{
		Text:  "✓",
		Style: pterm.NewStyle(pterm.FgGreen),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "✗",
		Style: pterm.NewStyle(pterm.FgRed),
	}
	pterm.DefaultSpinner.Style = pterm.NewStyle(pterm.FgCyan)

	stepMap := make(map[string]*Step, len(steps))
	for _, step := range steps {
		stepMap[step.ID] = step
	}
	pm := &ProgressManager{
		steps:          steps,
		stepMap:        stepMap,
		spinnerFactory: defaultSpinnerFactory,
		clock:          clock.New(),
		out:            out,
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// Start marks the step running and starts its spinner, stopping any previous one.
func (pm *ProgressManager) Start(stepID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, err := pm.lookup(stepID)
	if err != nil {
		return err
	}
	step.Status = StepRunning
	step.startTime = pm.clock.Now()
	if pm.disabled {
		return nil
	}

	if pm.currentSpinner != nil {
		_ = pm.currentSpinner.Stop() //nolint:errcheck
	}
	spinner, err := pm.spinnerFactory(step.Message)
	if err != nil {
		return fmt.Errorf("failed to start spinner: %w", err)
	}
	pm.currentSpinner = spinner
	return nil
}

// Complete marks the step completed.
func (pm *ProgressManager) Complete(stepID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, err := pm.lookup(stepID)
	if err != nil {
		return err
	}
	step.Status = StepCompleted
	if pm.disabled {
		return nil
	}

	msg := step.Message
	if step.Detail != "" {
		msg += ": " + step.Detail
	}
	msg += pm.elapsed(step)
	if pm.currentSpinner != nil {
		pm.currentSpinner.Success(msg)
		pm.currentSpinner = nil
		return nil
	}
	pterm.Success.Println(msg)
	return nil
}

// Fail marks the step failed with err.
func (pm *ProgressManager) Fail(stepID string, err error) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, lookupErr := pm.lookup(stepID)
	if lookupErr != nil {
		return lookupErr
	}
	step.Status = StepFailed
	if pm.disabled {
		return nil
	}

	msg := fmt.Sprintf("%s: %v", step.Message, err)
	if pm.currentSpinner != nil {
		pm.currentSpinner.Fail(msg)
		pm.currentSpinner = nil
		return nil
	}
	printf(pm.out, "%s %s", pterm.Error.Prefix.Text, msg)
	return nil
}

// Run runs fn as the given step, completing or failing it depending on the returned error.
func (pm *ProgressManager) Run(stepID string, fn func() error) error {
	if err := pm.Start(stepID); err != nil {
		return err
	}
	if err := fn(); err != nil {
		//nolint:errcheck
		pm.Fail(stepID, err)
		return err
	}
	return pm.Complete(stepID)
}

// SetDetail sets the text shown next to a completed step.
func (pm *ProgressManager) SetDetail(stepID, detail string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if step, ok := pm.stepMap[stepID]; ok {
		step.Detail = detail
	}
}

// Stop stops any active spinner.
func (pm *ProgressManager) Stop() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.currentSpinner != nil {
		_ = pm.currentSpinner.Stop() //nolint:errcheck
		pm.currentSpinner = nil
	}
}

func (pm *ProgressManager) lookup(stepID string) (*Step, error) {
	step, ok := pm.stepMap[stepID]
	if !ok {
		return nil, fmt.Errorf("step %q not found", stepID)
	}
	return step, nil
}

func (pm *ProgressManager) elapsed(step *Step) string {
	if step.startTime.IsZero() {
		return ""
	}
	d := pm.clock.Since(step.startTime)
	if d < time.Millisecond {
		return ""
	}
	return fmt.Sprintf(" (%s)", d.Round(time.Millisecond))
}

// trialProgress advances once per finished benchmark row.
type trialProgress interface {
	Advance(title string)
	Finish() error
}

type ptermProgress struct {
	bar *pterm.ProgressbarPrinter
}

func newTrialProgress(total int, enabled bool) (trialProgress, error) {
	if !enabled || total == 0 {
		return noProgress{}, nil
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("trials").
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return nil, err
	}
	return &ptermProgress{bar: bar}, nil
}

func (p *ptermProgress) Advance(title string) {
	p.bar.UpdateTitle(title)
	p.bar.Increment()
}

func (p *ptermProgress) Finish() error {
	_, err := p.bar.Stop()
	return err
}

type noProgress struct{}

func (noProgress) Advance(string) {}

func (noProgress) Finish() error { return nil }
