// Package tui provides the Bubble Tea valuation workbench.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/vcval/internal/model"
	"github.com/verte-zerg/vcval/internal/report"
	"github.com/verte-zerg/vcval/internal/valuation"
)

const (
	tabInputs = iota
	tabDCF
	tabComparables
	tabSummary
)

const (
	plotHeight    = 8
	plotAxisWidth = 8
	sliderWidth   = 24
	labelWidth    = 30
	defaultWidth  = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	riskValueStyle  = cardValueStyle.Foreground(lipgloss.Color("#F0883E"))
	compValueStyle  = cardValueStyle.Foreground(lipgloss.Color("#A371F7"))
	midValueStyle   = cardValueStyle.Foreground(lipgloss.Color("#3FB950"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	fieldStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	sliderFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#58A6FF"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// ComparableSaver persists the working comparable set.
type ComparableSaver interface {
	ReplaceComparables(ctx context.Context, comps []model.Comparable) error
}

type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Dec     key.Binding
	Inc     key.Binding
	Stage   key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Save    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Dec:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Inc:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		Stage:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "stage")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add comp")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit comp")),
		Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete comp")),
		Save:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save comps")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model implements the Bubble Tea valuation workbench. Every input change
// replaces the whole result inside Update.
type Model struct {
	saver ComparableSaver

	stage   string
	params  model.Parameters
	comps   []model.Comparable
	result  model.Result
	evalErr error

	tabs      []string
	activeTab int
	field     int
	fields    []model.Field
	viewports []viewport.Model
	compTable table.Model

	keys keyMap
	help help.Model

	width  int
	height int

	addMode   bool
	addInputs []textinput.Model
	addIndex  int
	addError  string
	editIndex int // -1 while adding

	status string
	errMsg string
}

// NewModel constructs a workbench for the given starting point. saver may be
// nil, in which case saving is reported as unavailable.
func NewModel(stage string, params model.Parameters, comps []model.Comparable, saver ComparableSaver) *Model {
	m := &Model{
		saver:  saver,
		stage:  stage,
		params: params,
		comps:  append([]model.Comparable(nil), comps...),
		tabs:   []string{"Inputs", "DCF", "Comparables", "Summary"},
		fields: model.Fields(),
		keys:   defaultKeyMap(),
		help:   help.New(),

		editIndex: -1,
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.compTable = table.New(
		table.WithColumns(compColumns()),
		table.WithHeight(5),
	)
	m.compTable.SetStyles(compTableStyles())
	m.initAddInputs()
	m.recompute()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.addMode {
			return m.updateAdd(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.moveTab(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.moveTab(-1)
		return m, nil
	case key.Matches(msg, m.keys.Stage):
		m.applyStage(int(msg.Runes[0] - '1'))
		return m, nil
	case key.Matches(msg, m.keys.Add):
		return m.startAdd()
	case key.Matches(msg, m.keys.Save):
		m.saveComparables()
		return m, nil
	}

	switch m.activeTab {
	case tabInputs:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveField(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveField(1)
		case key.Matches(msg, m.keys.Dec):
			m.stepField(-1)
		case key.Matches(msg, m.keys.Inc):
			m.stepField(1)
		}
		return m, nil
	case tabComparables:
		if key.Matches(msg, m.keys.Delete) {
			m.deleteSelected()
			return m, nil
		}
		if key.Matches(msg, m.keys.Edit) {
			return m.startEdit()
		}
		var cmd tea.Cmd
		m.compTable, cmd = m.compTable.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.addMode {
		return fitLines(m.renderAddModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Parameters returns the current parameter snapshot.
func (m *Model) Parameters() model.Parameters { return m.params }

// Comparables returns a copy of the working comparable set.
func (m *Model) Comparables() []model.Comparable {
	return append([]model.Comparable(nil), m.comps...)
}

// Result returns the latest evaluation.
func (m *Model) Result() model.Result { return m.result }

func (m *Model) recompute() {
	res, err := valuation.Evaluate(m.params, m.comps)
	m.result = res
	m.evalErr = err
	m.compTable.SetRows(compRows(m.comps))
	m.renderTabContents()
}

func (m *Model) applyStage(idx int) {
	presets := valuation.Presets()
	if idx < 0 || idx >= len(presets) {
		return
	}
	params, err := valuation.ApplyPreset(presets[idx].Key, m.params)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.params = params
	m.stage = presets[idx].Key
	m.errMsg = ""
	m.status = fmt.Sprintf("Applied %s preset", presets[idx].Name)
	m.recompute()
}

func (m *Model) moveField(delta int) {
	count := len(m.fields)
	if count == 0 {
		return
	}
	m.field = (m.field + delta + count) % count
}

func (m *Model) stepField(delta int) {
	if m.field < 0 || m.field >= len(m.fields) {
		return
	}
	m.params = m.params.Step(m.fields[m.field], delta)
	m.status = ""
	m.recompute()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabComparables {
		m.compTable.Focus()
	} else {
		m.compTable.Blur()
	}
}

func (m *Model) deleteSelected() {
	idx := m.compTable.Cursor()
	if idx < 0 || idx >= len(m.comps) {
		return
	}
	name := m.comps[idx].Name
	m.comps = append(m.comps[:idx], m.comps[idx+1:]...)
	m.status = fmt.Sprintf("Removed %s", name)
	m.recompute()
	if idx >= len(m.comps) && len(m.comps) > 0 {
		m.compTable.SetCursor(len(m.comps) - 1)
	}
}

func (m *Model) saveComparables() {
	if m.saver == nil {
		m.errMsg = "no comparables store configured"
		return
	}
	if err := m.saver.ReplaceComparables(context.Background(), m.comps); err != nil {
		m.errMsg = fmt.Sprintf("failed to save comparables: %v", err)
		return
	}
	m.errMsg = ""
	m.status = fmt.Sprintf("Saved %d comparables", len(m.comps))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.status != "" || m.evalErr != nil {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.compTable.SetWidth(m.width)
	m.compTable.SetHeight(maxInt(3, minInt(len(m.comps)+2, bodyHeight/2)))
	m.help.Width = m.width
	for i := range m.addInputs {
		promptWidth := lipgloss.Width(m.addInputs[i].Prompt)
		m.addInputs[i].Width = maxInt(10, modalWidth(m.width)-6-promptWidth)
	}
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	stage := "custom"
	if p, err := valuation.PresetFor(m.stage); err == nil {
		stage = p.Name
	}
	line := fmt.Sprintf("Stage: %s  Mid: %s  Comps: %d", stage, m.midLabel(), len(m.comps))
	return tabs + "\n" + headerStyle.Render(truncateLine(line, m.width))
}

func (m *Model) midLabel() string {
	if m.result.Intractable || m.evalErr != nil {
		return report.Intractable
	}
	return report.FormatValue(m.result.Range.Mid)
}

func (m *Model) renderHelp() string {
	bindings := []key.Binding{m.keys.NextTab, m.keys.Stage}
	switch m.activeTab {
	case tabInputs:
		bindings = append(bindings, m.keys.Up, m.keys.Down, m.keys.Dec, m.keys.Inc)
	case tabComparables:
		bindings = append(bindings, m.keys.Up, m.keys.Down, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Save)
	default:
		bindings = append(bindings, m.keys.Up, m.keys.Down)
	}
	bindings = append(bindings, m.keys.Quit)
	return m.help.ShortHelpView(bindings)
}

func (m *Model) renderFooter() string {
	helpLine := m.renderHelp()
	switch {
	case m.errMsg != "":
		return helpLine + "\n" + errorStyle.Render(m.errMsg)
	case m.evalErr != nil:
		return helpLine + "\n" + errorStyle.Render(m.evalErr.Error())
	case m.status != "":
		return helpLine + "\n" + statusStyle.Render(m.status)
	}
	return helpLine
}

func (m *Model) renderBody(height int) string {
	switch m.activeTab {
	case tabInputs:
		return fitLines(m.renderInputs(height), m.width, height)
	case tabComparables:
		return fitLines(m.renderComparables(), m.width, height)
	default:
		return fitLines(m.viewports[m.activeTab].View(), m.width, height)
	}
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.contentWidth()
	m.viewports[tabDCF].SetContent(m.renderDCF(width))
	m.viewports[tabSummary].SetContent(m.renderSummary(width))
}

func (m *Model) renderInputs(height int) string {
	lines := append(strings.Split(m.renderStageBar(), "\n"), "")
	start := 0
	visible := height - len(lines)
	if visible > 0 && m.field >= visible {
		start = m.field - visible + 1
	}
	for i := start; i < len(m.fields); i++ {
		f := m.fields[i]
		marker := "  "
		label := fieldStyle.Render(padRight(f.Label(), labelWidth))
		if i == m.field {
			marker = selectedStyle.Render("> ")
			label = selectedStyle.Render(padRight(f.Label(), labelWidth))
		}
		v := m.params.Value(f)
		lines = append(lines, fmt.Sprintf("%s%s %s %s", marker, label, sliderBar(v, f.Bounds(), sliderWidth), fieldValue(f, v)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStageBar() string {
	parts := []string{}
	desc := ""
	for i, p := range valuation.Presets() {
		label := fmt.Sprintf("%d %s", i+1, p.Name)
		if p.Key == m.stage {
			parts = append(parts, selectedStyle.Render(label))
			desc = p.Description
		} else {
			parts = append(parts, headerStyle.Render(label))
		}
	}
	bar := strings.Join(parts, "  ")
	if desc != "" {
		bar += "\n" + headerStyle.Render(truncateLine(desc, m.contentWidth()))
	}
	return bar
}

// evalFailure reports an evaluation error that left no usable result. An
// intractable result still carries its base values and is rendered.
func (m *Model) evalFailure() string {
	if m.evalErr == nil || m.result.Intractable {
		return ""
	}
	return errorStyle.Render("Cannot evaluate: " + m.evalErr.Error())
}

func (m *Model) renderDCF(width int) string {
	if msg := m.evalFailure(); msg != "" {
		return msg
	}
	res := m.result
	cards := []string{
		metricCard("Base DCF", report.FormatValue(res.BaseDCF), cardValueStyle),
		metricCard("Risk-Adj DCF", adjustedLabel(res, report.FormatValue(res.AdjustedDCF)), riskValueStyle),
		metricCard("Value Destroyed", adjustedLabel(res, fmt.Sprintf("-%.0f%%", res.DiscountImpact)), riskValueStyle),
	}
	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")
	for _, line := range report.FormulaTrace(m.params, res) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	header := padRight("", 10)
	revs := padRight("Revenue", 10)
	cfs := padRight("Cash flow", 10)
	for i, rev := range res.Revenues {
		label := "Now"
		cf := ""
		if i > 0 {
			label = fmt.Sprintf("Y%d", i)
			cf = report.FormatValue(res.CashFlows[i-1])
		}
		header += fmt.Sprintf("%10s", label)
		revs += fmt.Sprintf("%10s", report.FormatValue(rev))
		cfs += fmt.Sprintf("%10s", cf)
	}
	b.WriteString(headerStyle.Render(header) + "\n" + revs + "\n" + cfs + "\n")
	fmt.Fprintf(&b, "Terminal value (%s): %s\n\n", report.FormatMultiple(m.params.TerminalMultiple), report.FormatValue(res.TerminalValue))

	cashFlows := append([]float64{0}, res.CashFlows[:]...)
	var plot bytes.Buffer
	err := report.PlotSeries(&plot, "Projection", []report.Series{
		{Name: "Revenue", Values: res.Revenues[:]},
		{Name: "Cash flow", Values: cashFlows},
	}, report.PlotWidthFor(width, plotAxisWidth), plotHeight, true, report.FormatValue)
	if err != nil {
		fmt.Fprintf(&b, "Failed to render projection: %v", err)
	} else {
		b.WriteString(plot.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderComparables() string {
	res := m.result
	var b strings.Builder
	if len(m.comps) == 0 {
		b.WriteString("No comparables; press a to add one. The terminal multiple is used meanwhile.\n")
	} else {
		b.WriteString(tableMutedStyle.Render(m.compTable.View()) + "\n")
	}
	if msg := m.evalFailure(); msg != "" {
		b.WriteString("\n" + msg)
		return b.String()
	}
	fmt.Fprintf(&b, "\nMedian %s  Average %s  Base value %s\n\n",
		report.FormatMultiple(res.MedianMultiple), report.FormatMultiple(res.AverageMultiple), report.FormatValue(res.ComparableBaseValue))
	for _, f := range res.QualityFactors {
		fmt.Fprintf(&b, "%s %d/5  %s\n", padRight(f.Dimension.Label(), 16), f.Score, report.FormatFactor(f.Multiplier))
	}
	fmt.Fprintf(&b, "%s       %s\n", padRight("Total", 16), selectedStyle.Render(report.FormatFactor(res.TotalQualityMultiplier)))
	fmt.Fprintf(&b, "\nQuality-adjusted value: %s", compValueStyle.Render(report.FormatValue(res.ComparableAdjustedValue)))
	return b.String()
}

func (m *Model) renderSummary(width int) string {
	if msg := m.evalFailure(); msg != "" {
		return msg
	}
	res := m.result
	cards := []string{
		metricCard("Risk-Adj DCF", adjustedLabel(res, report.FormatValue(res.AdjustedDCF)), riskValueStyle),
		metricCard("Comparable", report.FormatValue(res.ComparableAdjustedValue), compValueStyle),
		metricCard("Blended Mid", adjustedLabel(res, report.FormatValue(res.Range.Mid)), midValueStyle),
	}
	var b strings.Builder
	if width < 60 {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	b.WriteString("\n\n")
	if !res.Intractable {
		fmt.Fprintf(&b, "Low %s   Mid %s   High %s\n\n",
			report.FormatValue(res.Range.Low), report.FormatValue(res.Range.Mid), report.FormatValue(res.Range.High))
	}
	b.WriteString(wrapText(strings.Join(report.Narrative(m.params, res), "\n\n"), maxInt(20, width-2)))
	return b.String()
}

func (m *Model) initAddInputs() {
	m.addInputs = []textinput.Model{
		newInput("Name: ", "Comparable D"),
		newInput("Valuation (£m): ", "100"),
		newInput("Revenue (£m): ", "10"),
		newInput("Stage: ", "Series A"),
	}
}

func newInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) startAdd() (tea.Model, tea.Cmd) {
	m.addMode = true
	m.addError = ""
	m.editIndex = -1
	for i := range m.addInputs {
		m.addInputs[i].SetValue("")
	}
	return m, m.setAddIndex(0)
}

// startEdit opens the comparable form prefilled with the selected row.
func (m *Model) startEdit() (tea.Model, tea.Cmd) {
	idx := m.compTable.Cursor()
	if idx < 0 || idx >= len(m.comps) {
		return m, nil
	}
	c := m.comps[idx]
	m.addMode = true
	m.addError = ""
	m.editIndex = idx
	m.addInputs[0].SetValue(c.Name)
	m.addInputs[1].SetValue(strconv.FormatFloat(c.Valuation, 'g', -1, 64))
	m.addInputs[2].SetValue(strconv.FormatFloat(c.Revenue, 'g', -1, 64))
	m.addInputs[3].SetValue(c.Stage)
	return m, m.setAddIndex(0)
}

func (m *Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.addMode = false
		m.addError = ""
		m.editIndex = -1
		return m, nil
	case tea.KeyEnter:
		comp, err := m.parseAddInputs()
		if err != nil {
			m.addError = err.Error()
			return m, nil
		}
		m.addMode = false
		m.addError = ""
		if m.editIndex >= 0 && m.editIndex < len(m.comps) {
			comp.ID = m.comps[m.editIndex].ID
			m.comps[m.editIndex] = comp
			m.status = fmt.Sprintf("Updated %s", comp.Name)
		} else {
			m.comps = append(m.comps, comp)
			m.status = fmt.Sprintf("Added %s", comp.Name)
		}
		m.editIndex = -1
		m.updateLayout()
		m.recompute()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setAddIndex(m.addIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setAddIndex(m.addIndex - 1)
	}
	var cmd tea.Cmd
	m.addInputs[m.addIndex], cmd = m.addInputs[m.addIndex].Update(msg)
	return m, cmd
}

func (m *Model) setAddIndex(idx int) tea.Cmd {
	count := len(m.addInputs)
	if count == 0 {
		return nil
	}
	m.addIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.addInputs {
		if i == m.addIndex {
			cmd = m.addInputs[i].Focus()
		} else {
			m.addInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseAddInputs() (model.Comparable, error) {
	name := strings.TrimSpace(m.addInputs[0].Value())
	if name == "" {
		return model.Comparable{}, errors.New("name is required")
	}
	val, err := parseAmount(m.addInputs[1].Value())
	if err != nil {
		return model.Comparable{}, fmt.Errorf("invalid valuation: %w", err)
	}
	revenue, err := parseAmount(m.addInputs[2].Value())
	if err != nil {
		return model.Comparable{}, fmt.Errorf("invalid revenue: %w", err)
	}
	return model.Comparable{
		Name:      name,
		Valuation: val,
		Revenue:   revenue,
		Stage:     strings.TrimSpace(m.addInputs[3].Value()),
	}, nil
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "£"), "m"))
	if s == "" {
		return 0, errors.New("value is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func (m *Model) renderAddModal() string {
	title, action := "Add Comparable", "add"
	if m.editIndex >= 0 {
		title, action = "Edit Comparable", "save"
	}
	body := []string{cardValueStyle.Render(title)}
	for _, input := range m.addInputs {
		body = append(body, input.View())
	}
	body = append(body,
		headerStyle.Render("Revenue of 0 keeps the row but excludes it from multiples."),
		headerStyle.Render(fmt.Sprintf("tab: next field  enter: %s  esc: cancel", action)),
	)
	if m.addError != "" {
		body = append(body, errorStyle.Render(m.addError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func metricCard(label, value string, valueStyle lipgloss.Style) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), valueStyle.Render(value))
	return cardStyle.Render(content)
}

func adjustedLabel(res model.Result, value string) string {
	if res.Intractable {
		return report.Intractable
	}
	return value
}

func sliderBar(v float64, b model.Bounds, width int) string {
	frac := 0.0
	if b.Max > b.Min {
		frac = (v - b.Min) / (b.Max - b.Min)
	}
	frac = math.Max(0, math.Min(1, frac))
	pos := int(math.Round(frac * float64(width-1)))
	return sliderFillStyle.Render(strings.Repeat("━", pos)+"●") + headerStyle.Render(strings.Repeat("─", width-1-pos))
}

func fieldValue(f model.Field, v float64) string {
	switch f.Unit() {
	case "k":
		return report.FormatValue(v)
	case "%":
		return fmt.Sprintf("%.0f%%", v)
	case "x":
		return fmt.Sprintf("%.0fx", v)
	case "y":
		return fmt.Sprintf("%.0f years", v)
	default:
		return fmt.Sprintf("%.0f/5", v)
	}
}

func compColumns() []table.Column {
	return []table.Column{
		{Title: "Company", Width: 18},
		{Title: "Stage", Width: 10},
		{Title: "Val (£m)", Width: 9},
		{Title: "Rev (£m)", Width: 9},
		{Title: "Multiple", Width: 8},
	}
}

func compRows(comps []model.Comparable) []table.Row {
	rows := make([]table.Row, 0, len(comps))
	for _, c := range comps {
		rows = append(rows, table.Row{
			c.Name,
			c.Stage,
			strconv.FormatFloat(c.Valuation, 'g', -1, 64),
			strconv.FormatFloat(c.Revenue, 'g', -1, 64),
			report.ComparableMultiple(c),
		})
	}
	return rows
}

func compTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
