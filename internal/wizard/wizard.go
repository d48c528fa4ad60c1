package wizard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/outage-log/internal/eventstore"
	"github.com/pfrederiksen/outage-log/internal/logger"
	"github.com/pfrederiksen/outage-log/internal/outage"
	"golang.org/x/term"
)

var (
	// ErrSaveFailed means the store did not accept the finished event.
	ErrSaveFailed = errors.New("could not save the event")
	// ErrAborted means input ended before the last step was answered.
	ErrAborted = errors.New("recording aborted before the last step")
)

// Wizard records one outage event per Run or Complete call.
type Wizard struct {
	store   eventstore.EventStore
	prompts *bool
}

// Option configures a Wizard
type Option func(*Wizard)

// WithPrompts forces prompts on or off. By default prompts are printed only
// when the input is a terminal.
func WithPrompts(show bool) Option {
	return func(w *Wizard) {
		w.prompts = &show
	}
}

// New creates a wizard that saves into store
func New(store eventstore.EventStore, opts ...Option) *Wizard {
	w := &Wizard{store: store}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run asks the three steps on in/out, repeating a step until its required
// fields are answered, then saves the event.
func (w *Wizard) Run(ctx context.Context, in io.Reader, out io.Writer) (outage.Event, error) {
	s := &session{
		reader:  bufio.NewReader(in),
		out:     out,
		prompts: w.showPrompts(in),
	}

	loc, err := askUntilValid(ctx, s, "Step 1 of 3: Affected location", s.askLocation)
	if err != nil {
		return outage.Event{}, err
	}
	win, err := askUntilValid(ctx, s, "Step 2 of 3: Outage time", s.askWindow)
	if err != nil {
		return outage.Event{}, err
	}
	dmg, err := askUntilValid(ctx, s, "Step 3 of 3: Damages caused", s.askDamages)
	if err != nil {
		return outage.Event{}, err
	}

	evt, err := w.save(ctx, loc, win, dmg)
	if err != nil {
		fmt.Fprintln(out, "Error: Could not save the event. Please try again.")
		return outage.Event{}, err
	}

	fmt.Fprintln(out, "Success: Power outage event recorded.")
	return evt, nil
}

// Complete validates already collected answers and saves the event without
// asking anything.
func (w *Wizard) Complete(ctx context.Context, loc LocationForm, win WindowForm, dmg DamagesForm) (outage.Event, error) {
	location, err := loc.Submit()
	if err != nil {
		return outage.Event{}, err
	}
	window, err := win.Submit()
	if err != nil {
		return outage.Event{}, err
	}
	damages, err := dmg.Submit()
	if err != nil {
		return outage.Event{}, err
	}

	return w.save(ctx, location, window, damages)
}

func (w *Wizard) save(ctx context.Context, loc outage.Location, win outage.Window, dmg outage.Damages) (outage.Event, error) {
	if err := ctx.Err(); err != nil {
		return outage.Event{}, err
	}

	evt := outage.NewEvent(loc, win, dmg)
	if err := evt.Validate(); err != nil {
		return outage.Event{}, err
	}
	logger.Debug("saving event", logger.Fields{"id": evt.ID, "city": evt.Location.City})

	if !w.store.Append(ctx, evt) {
		return outage.Event{}, ErrSaveFailed
	}
	return evt, nil
}

func (w *Wizard) showPrompts(in io.Reader) bool {
	if w.prompts != nil {
		return *w.prompts
	}
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// askUntilValid runs one step until it produces a value. A *Notice is shown
// and the step is asked again; any other error ends the wizard.
func askUntilValid[T any](ctx context.Context, s *session, title string, step func() (T, error)) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		s.println("\n" + title)
		value, err := step()
		if err == nil {
			return value, nil
		}

		var notice *Notice
		if !errors.As(err, &notice) {
			return zero, err
		}
		fmt.Fprintf(s.out, "%s: %s\n", notice.Title, notice.Message)
	}
}

// session is the line-oriented I/O of one Run
type session struct {
	reader  *bufio.Reader
	out     io.Writer
	prompts bool
}

func (s *session) askLocation() (outage.Location, error) {
	var form LocationForm
	var err error
	if form.Neighborhood, err = s.ask("Neighborhood (optional)"); err != nil {
		return outage.Location{}, err
	}
	if form.City, err = s.ask("City *"); err != nil {
		return outage.Location{}, err
	}
	if form.PostalCode, err = s.ask("Postal code (optional, e.g. 12345-678)"); err != nil {
		return outage.Location{}, err
	}
	return form.Submit()
}

func (s *session) askWindow() (outage.Window, error) {
	var form WindowForm
	var err error
	if form.StartedAt, err = s.ask("Start date/time * (e.g. 01/06/2025 14:30)"); err != nil {
		return outage.Window{}, err
	}
	answer, err := s.ask("Still without power? [y/N]")
	if err != nil {
		return outage.Window{}, err
	}
	form.Ongoing = isYes(answer)
	if !form.Ongoing {
		if form.EndedAt, err = s.ask("End date/time * (e.g. 01/06/2025 16:45)"); err != nil {
			return outage.Window{}, err
		}
	}
	if form.EstimatedDuration, err = s.ask("Estimated duration (optional, e.g. 2 hours 15 minutes)"); err != nil {
		return outage.Window{}, err
	}
	return form.Submit()
}

func (s *session) askDamages() (outage.Damages, error) {
	description, err := s.ask("Damages * (homes affected, businesses affected, ...)")
	if err != nil {
		return outage.Damages{}, err
	}
	return DamagesForm{Description: description}.Submit()
}

// ask prints a prompt (when prompting) and reads one line. Input that ends
// without any text is ErrAborted.
func (s *session) ask(prompt string) (string, error) {
	if s.prompts {
		fmt.Fprintf(s.out, "%s: ", prompt)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *session) println(text string) {
	if s.prompts {
		fmt.Fprintln(s.out, text)
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}
