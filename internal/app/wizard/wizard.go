package wizard

import (
	"github.com/specsinspector/webapp/internal/app/models"
)

// State identifies where the registration flow currently is. The three
// editing states correspond to the visible wizard steps; Submitting,
// Succeeded and Failed cover the server round trip.
type State string

const (
	StateAccount    State = "account"
	StatePersonal   State = "personal"
	StatePlan       State = "plan"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// ParseState maps a serialized state back to a known State. Unknown
// input resets to the first step rather than trusting the client.
func ParseState(raw string) State {
	switch State(raw) {
	case StateAccount, StatePersonal, StatePlan, StateSubmitting, StateSucceeded, StateFailed:
		return State(raw)
	default:
		return StateAccount
	}
}

// Step returns the 1-based progress position for rendering the step
// indicator. The post-submit states all map to the last step.
func (s State) Step() int {
	switch s {
	case StateAccount:
		return 1
	case StatePersonal:
		return 2
	default:
		return 3
	}
}

// Draft accumulates everything the user has typed across steps. It is
// carried unchanged through every transition so moving back and forth
// never loses input.
type Draft struct {
	CompanyName     string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Plan            string
}

// NewDraft returns an empty draft with the default plan preselected.
func NewDraft() Draft {
	return Draft{Plan: string(models.DefaultPlan)}
}

// Request builds the registration payload from the draft.
func (d Draft) Request() models.RegistrationRequest {
	return models.RegistrationRequest{
		CompanyName: d.CompanyName,
		Email:       d.Email,
		Password:    d.Password,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Plan:        d.Plan,
	}
}

// Event is a user or server action fed into the machine.
type Event interface{ isEvent() }

type (
	// EventNext advances past the current step when it validates.
	EventNext struct{}
	// EventBack returns to the previous editing step.
	EventBack struct{}
	// EventSubmit submits the completed draft from the plan step.
	EventSubmit struct{}
	// EventSubmitSucceeded reports a successful server registration.
	EventSubmitSucceeded struct{}
	// EventSubmitFailed reports a rejected registration with the
	// user-facing message to display.
	EventSubmitFailed struct{ Message string }
)

func (EventNext) isEvent()            {}
func (EventBack) isEvent()            {}
func (EventSubmit) isEvent()          {}
func (EventSubmitSucceeded) isEvent() {}
func (EventSubmitFailed) isEvent()    {}

// Effect is a side effect the caller must perform after a transition.
type Effect interface{ isEffect() }

// EffectSubmitRegistration instructs the caller to send the registration
// request and feed the outcome back as EventSubmitSucceeded or
// EventSubmitFailed.
type EffectSubmitRegistration struct {
	Request models.RegistrationRequest
}

func (EffectSubmitRegistration) isEffect() {}

// Machine is an immutable snapshot of the wizard. Apply returns the next
// snapshot; callers keep whichever they need.
type Machine struct {
	State State
	Draft Draft
	// Error is the message to show for the current state, empty when
	// the last transition was accepted.
	Error string
}

// New starts the wizard at the account step with an empty draft.
func New() Machine {
	return Machine{State: StateAccount, Draft: NewDraft()}
}

// Apply feeds one event into the machine and returns the resulting
// machine plus any effects the caller must run. Events that make no
// sense in the current state are ignored.
func (m Machine) Apply(ev Event) (Machine, []Effect) {
	switch ev := ev.(type) {
	case EventNext:
		return m.next(), nil
	case EventBack:
		return m.back(), nil
	case EventSubmit:
		return m.submit()
	case EventSubmitSucceeded:
		if m.State == StateSubmitting {
			m.State = StateSucceeded
			m.Error = ""
		}
		return m, nil
	case EventSubmitFailed:
		if m.State == StateSubmitting {
			m.State = StateFailed
			m.Error = ev.Message
		}
		return m, nil
	}
	return m, nil
}

func (m Machine) next() Machine {
	switch m.State {
	case StateAccount:
		if msg := validateAccount(m.Draft); msg != "" {
			m.Error = msg
			return m
		}
		m.State = StatePersonal
		m.Error = ""
	case StatePersonal:
		if msg := validatePersonal(m.Draft); msg != "" {
			m.Error = msg
			return m
		}
		m.State = StatePlan
		m.Error = ""
	}
	return m
}

func (m Machine) back() Machine {
	switch m.State {
	case StatePersonal:
		m.State = StateAccount
	case StatePlan, StateFailed:
		m.State = StatePersonal
	}
	m.Error = ""
	return m
}

// submit re-validates the earlier steps before dispatching. A draft a
// user doctored after moving forward jumps back to the offending step
// instead of reaching the server.
func (m Machine) submit() (Machine, []Effect) {
	if m.State != StatePlan && m.State != StateFailed {
		return m, nil
	}
	if msg := validateAccount(m.Draft); msg != "" {
		m.State = StateAccount
		m.Error = msg
		return m, nil
	}
	if msg := validatePersonal(m.Draft); msg != "" {
		m.State = StatePersonal
		m.Error = msg
		return m, nil
	}
	if !models.ValidPlan(models.Plan(m.Draft.Plan)) {
		m.Error = "Please select a plan"
		return m, nil
	}
	m.State = StateSubmitting
	m.Error = ""
	return m, []Effect{EffectSubmitRegistration{Request: m.Draft.Request()}}
}

const minPasswordLength = 8

func validateAccount(d Draft) string {
	if d.CompanyName == "" || d.Email == "" || d.Password == "" || d.ConfirmPassword == "" {
		return "Please fill in all fields"
	}
	if d.Password != d.ConfirmPassword {
		return "Passwords do not match"
	}
	if len(d.Password) < minPasswordLength {
		return "Password must be at least 8 characters long"
	}
	return ""
}

func validatePersonal(d Draft) string {
	if d.FirstName == "" || d.LastName == "" {
		return "Please fill in all fields"
	}
	return ""
}
