package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
)

// NotGroundedMessage is shown when no retrieved sentence supports an answer.
const NotGroundedMessage = "The document does not clearly contain an answer."

// QueryPort is the TUI-facing subset of the service.
type QueryPort interface {
	Query(sessionID, query string) (domain.Response, error)
}

type exchange struct {
	query    string
	response domain.Response
	err      error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   QueryPort
	sessionID string
	input     textinput.Model
	viewport  viewport.Model
	history   []exchange
	header    string
	status    string
	cursor    int
	ready     bool
}

// New creates a TUI bound to one indexed session.
func New(service QueryPort, sessionID string, chunks int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question or request a summary"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		sessionID: sessionID,
		input:     ti,
		viewport:  vp,
		header:    fmt.Sprintf("Indexed %d text chunks", chunks),
		status:    "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // title and header, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.Query(m.sessionID, q)
				m.history = append(m.history, exchange{query: q, response: res, err: err})
				m.cursor = len(m.history) - 1
				m.status = statusFor(q, res, err)
				m.input.SetValue("")
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.history) > 0 {
				m.cursor = (m.cursor - 1 + len(m.history)) % len(m.history)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "down":
			if len(m.history) > 0 {
				m.cursor = (m.cursor + 1) % len(m.history)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and the selected exchange.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := lipgloss.NewStyle().Bold(true).Render("Document QA")
	header := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.header)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return title + "\n" + header + "\n" + body + "\n" + input + "\n" + status
}

func statusFor(q string, res domain.Response, err error) string {
	switch {
	case errors.Is(err, domain.ErrNotGrounded):
		return fmt.Sprintf("No grounded answer for %q", q)
	case err != nil:
		return "Error: " + err.Error()
	case res.Kind == domain.QuerySummary:
		return fmt.Sprintf("Summary for %q", q)
	default:
		return fmt.Sprintf("Answer for %q", q)
	}
}

func (m Model) renderCurrent() string {
	if len(m.history) == 0 {
		return "No questions yet."
	}
	ex := m.history[m.cursor]
	title := fmt.Sprintf("%d/%d  %s", m.cursor+1, len(m.history), ex.query)
	return title + "\n\n" + renderExchange(ex)
}

func renderExchange(ex exchange) string {
	if errors.Is(ex.err, domain.ErrNotGrounded) {
		return warnStyle.Render(NotGroundedMessage)
	}
	if ex.err != nil {
		return warnStyle.Render("Error: " + ex.err.Error())
	}
	if s := ex.response.Summary; s != nil {
		lines := make([]string, len(s.Sentences))
		for i, sent := range s.Sentences {
			lines[i] = fmt.Sprintf("%d. %s", i+1, sent)
		}
		return labelStyle.Render("Summary") + "\n" + strings.Join(lines, "\n")
	}
	a := ex.response.Answer
	if a == nil {
		return ""
	}
	conf := fmt.Sprintf("Confidence: %.2f (%s)", a.Confidence, a.Band)
	return labelStyle.Render("Answer") + "\n" + highlightShared(a.Answer, ex.query) + "\n\n" + bandStyle(a.Band).Render(conf)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Underline(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

func bandStyle(b domain.Band) lipgloss.Style {
	switch b {
	case domain.BandHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case domain.BandAcceptable:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
}

// highlightShared emphasizes the answer words that also occur in the query.
func highlightShared(answer, query string) string {
	q := toTokenSet(query)
	if len(q) == 0 {
		return answer
	}
	return unicodeWordRe.ReplaceAllStringFunc(answer, func(w string) string {
		if _, ok := q[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
