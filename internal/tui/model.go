// Package tui is the interactive trip catalog: a month selector, the list of
// trips in that month, and a form to create or edit a trip.
//
// The model runs on Bubble Tea's single event loop. Every network call is a
// tea.Cmd that runs the matching triplist.Controller operation off the loop
// and reports back with a message; the view always renders from the
// controller's current state.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/triplist"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// Form fields, in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldStart
	fieldEnd
	fieldCount
)

type loadedMsg struct{ err error }

type savedMsg struct {
	trip domain.Trip
	err  error
}

type deletedMsg struct {
	id  domain.ID
	err error
}

// Model is the Bubble Tea model of the catalog.
type Model struct {
	ctx context.Context
	ctl *triplist.Controller

	mode    mode
	cursor  int
	inputs  []textinput.Model
	focus   int
	pending int // requests in flight

	status    string
	statusErr bool
	width     int

	styles styles
}

// New returns a model bound to ctl. ctx scopes every request it issues.
func New(ctx context.Context, ctl *triplist.Controller) Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 48
		inputs[i] = ti
	}
	inputs[fieldTitle].Placeholder = "Title"
	inputs[fieldDescription].Placeholder = "Description"
	inputs[fieldStart].Placeholder = "2025,6,1,9,30"
	inputs[fieldEnd].Placeholder = "2025,6,15,18,0"

	return Model{
		ctx:     ctx,
		ctl:     ctl,
		inputs:  inputs,
		styles:  defaultStyles(),
		pending: 1, // the load Init issues
		status:  "loading…",
	}
}

// Init loads the catalog. New already counts this load as pending.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		m.done()
		if msg.err != nil {
			m.setError("load failed: %v", msg.err)
		} else {
			m.setStatus("%d trips loaded", len(m.ctl.Trips()))
		}
		m.clampCursor()
		return m, nil

	case savedMsg:
		m.done()
		if msg.err != nil {
			m.setError("save failed: %v", msg.err)
			return m, nil
		}
		m.setStatus("saved %q", msg.trip.Title)
		if m.mode == modeForm {
			m.closeForm()
		}
		m.clampCursor()
		return m, nil

	case deletedMsg:
		m.done()
		if msg.err != nil {
			m.setError("delete failed: %v", msg.err)
		} else {
			m.setStatus("deleted trip %s", msg.id)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "left", "h":
		m.setMonth((m.ctl.MonthFilter() + 12) % 13)
	case "right", "l":
		m.setMonth((m.ctl.MonthFilter() + 1) % 13)
	case "a", "0":
		m.setMonth(triplist.AllMonths)
	case "r":
		m.setStatus("loading…")
		m.pending++
		return m, m.loadCmd()
	case "n":
		m.ctl.NewDraft()
		cmd := m.openForm()
		return m, cmd
	case "e", "enter":
		t, ok := m.selected()
		if !ok || !m.ctl.SelectForEdit(t.ID) {
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	t, ok := m.selected()
	if msg.String() != "y" || !ok {
		m.setStatus("delete cancelled")
		return m, nil
	}
	m.setStatus("deleting %q…", t.Title)
	cmd := m.deleteCmd(t.ID)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctl.NewDraft()
		m.closeForm()
		m.setStatus("edit cancelled")
		return m, nil
	case "tab", "down":
		cmd := m.focusField((m.focus + 1) % fieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case "enter":
		if m.focus < fieldCount-1 {
			cmd := m.focusField(m.focus + 1)
			return m, cmd
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	d := m.ctl.Draft()
	d.Title = m.inputs[fieldTitle].Value()
	d.Description = m.inputs[fieldDescription].Value()
	d.Start = m.inputs[fieldStart].Value()
	d.End = m.inputs[fieldEnd].Value()
	m.ctl.SetDraft(d)

	m.setStatus("saving…")
	m.pending++
	ctx, ctl := m.ctx, m.ctl
	return m, func() tea.Msg {
		t, err := ctl.SubmitForm(ctx)
		return savedMsg{trip: t, err: err}
	}
}

// --- commands -------------------------------------------------------------------

// loadCmd does not count itself as pending; callers do.
func (m Model) loadCmd() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		return loadedMsg{err: ctl.Load(ctx)}
	}
}

func (m *Model) deleteCmd(id domain.ID) tea.Cmd {
	m.pending++
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		return deletedMsg{id: id, err: ctl.DeleteTrip(ctx, id)}
	}
}

// --- helpers --------------------------------------------------------------------

func (m *Model) openForm() tea.Cmd {
	d := m.ctl.Draft()
	m.inputs[fieldTitle].SetValue(d.Title)
	m.inputs[fieldDescription].SetValue(d.Description)
	m.inputs[fieldStart].SetValue(d.Start)
	m.inputs[fieldEnd].SetValue(d.End)
	m.mode = modeForm
	m.status, m.statusErr = "", false
	return m.focusField(fieldTitle)
}

func (m *Model) closeForm() {
	m.mode = modeList
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) setMonth(month time.Month) {
	// Only 0-12 reach here, which SetMonthFilter always accepts.
	_ = m.ctl.SetMonthFilter(month)
	m.cursor = 0
}

func (m *Model) selected() (domain.Trip, bool) {
	view := m.ctl.View()
	if m.cursor < 0 || m.cursor >= len(view) {
		return domain.Trip{}, false
	}
	return view[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.ctl.View())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) done() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m *Model) setStatus(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), false
}

func (m *Model) setError(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), true
}

// --- view -----------------------------------------------------------------------

type styles struct {
	title    lipgloss.Style
	month    lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	label    lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		month:    lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		label:    lipgloss.NewStyle().Width(13),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// MonthLabel names a month selector the way the filter shows it.
func MonthLabel(month time.Month) string {
	if month == triplist.AllMonths {
		return "All months"
	}
	return month.String()
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Trips"))
	b.WriteString("   Filter by month: ")
	b.WriteString(m.styles.month.Render("◀ " + MonthLabel(m.ctl.MonthFilter()) + " ▶"))
	if m.pending > 0 {
		b.WriteString(m.styles.dim.Render("  (working…)"))
	}
	b.WriteString("\n\n")

	if m.mode == modeForm {
		m.viewForm(&b)
	} else {
		m.viewList(&b)
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(m.styles.err.Render(m.status))
		} else {
			b.WriteString(m.styles.dim.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render(m.helpLine()))
	return b.String()
}

func (m Model) viewList(b *strings.Builder) {
	view := m.ctl.View()
	if len(view) == 0 {
		if m.ctl.MonthFilter() == triplist.AllMonths {
			b.WriteString(m.styles.dim.Render("No trips."))
		} else {
			b.WriteString(m.styles.dim.Render("No trips in " + MonthLabel(m.ctl.MonthFilter()) + "."))
		}
		b.WriteString("\n")
		return
	}
	for i, t := range view {
		line := fmt.Sprintf("%-10s %s", t.Start.DisplayDate(), t.Title)
		if i == m.cursor {
			b.WriteString(m.styles.selected.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		if t.Description != "" {
			b.WriteString("  " + m.styles.dim.Render(t.Description))
		}
		b.WriteString("\n")
	}
	if m.mode == modeConfirmDelete {
		if t, ok := m.selected(); ok {
			b.WriteString("\n" + m.styles.err.Render(fmt.Sprintf("Delete %q? (y/N)", t.Title)) + "\n")
		}
	}
}

func (m Model) viewForm(b *strings.Builder) {
	heading := "New trip"
	if d := m.ctl.Draft(); !d.IsNew() {
		heading = "Edit trip " + string(d.ID)
	}
	b.WriteString(m.styles.month.Render(heading) + "\n\n")
	labels := [fieldCount]string{"Title", "Description", "Start", "End"}
	for i, in := range m.inputs {
		b.WriteString(m.styles.label.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeForm:
		return "tab next field • enter/ctrl+s save • esc cancel"
	case modeConfirmDelete:
		return "y confirm • any other key cancels"
	default:
		return "←/→ month • a all • ↑/↓ move • n new • e edit • d delete • r reload • q quit"
	}
}
