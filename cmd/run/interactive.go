package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"
	"go.starlark.net/starlark"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/runtime"
	"github.com/wippyai/starbind/variant"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// syncBuffer collects script output while the TUI owns the terminal.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Take returns and clears the collected output.
func (b *syncBuffer) Take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.buf.String()
	b.buf.Reset()
	return s
}

type modelState int

const (
	stateSelectClass modelState = iota
	stateSelectMethod
	stateInputArgs
	stateREPL
)

const historyLines = 20

type paramInfo struct {
	witType wit.Type
	typeStr string
}

type interactiveModel struct {
	rt       *runtime.Runtime
	session  *runtime.Session
	out      *syncBuffer
	classes  []string
	methods  []starbind.MethodInfo
	params   []paramInfo
	inputs   []textinput.Model
	prompt   textinput.Model
	history  []string
	class    string
	result   string
	err      error
	selected int
	focusIdx int
	state    modelState
}

type callResultMsg struct {
	err    error
	src    string
	result string
	output string
}

func newInteractiveModel(rt *runtime.Runtime, out *syncBuffer) *interactiveModel {
	prompt := textinput.New()
	prompt.Prompt = ">>> "
	prompt.Width = 60

	return &interactiveModel{
		rt:      rt,
		session: rt.NewSession(),
		out:     out,
		classes: rt.Classes().ClassList(),
		prompt:  prompt,
		state:   stateSelectClass,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case callResultMsg:
		m.recordResult(msg)
		return m, nil
	}

	switch m.state {
	case stateInputArgs:
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	case stateREPL:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true

	case "q":
		if m.state == stateSelectClass || m.state == stateSelectMethod {
			return tea.Quit, true
		}

	case "up", "k":
		if m.state == stateSelectClass || m.state == stateSelectMethod {
			if m.selected > 0 {
				m.selected--
			}
			return nil, true
		}

	case "down", "j":
		if m.state == stateSelectClass || m.state == stateSelectMethod {
			if m.selected < m.listLen()-1 {
				m.selected++
			}
			return nil, true
		}

	case "enter":
		switch m.state {
		case stateSelectClass:
			if len(m.classes) == 0 {
				return nil, true
			}
			m.class = m.classes[m.selected]
			m.methods = m.rt.Classes().MethodList(m.class, true)
			m.selected = 0
			m.state = stateSelectMethod
			m.clearResult()
		case stateSelectMethod:
			if len(m.methods) == 0 {
				return nil, true
			}
			m.prepareInputs()
			if len(m.inputs) == 0 {
				return m.callMethod(), true
			}
			m.state = stateInputArgs
		case stateInputArgs:
			return m.callMethod(), true
		case stateREPL:
			src := strings.TrimSpace(m.prompt.Value())
			m.prompt.SetValue("")
			if src == "" {
				return nil, true
			}
			return m.runChunk(src), true
		}
		return nil, true

	case "tab":
		switch m.state {
		case stateInputArgs:
			if len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}
			return nil, true
		case stateSelectClass, stateSelectMethod:
			m.state = stateREPL
			m.prompt.Focus()
			return textinput.Blink, true
		}

	case "esc":
		switch m.state {
		case stateSelectMethod:
			m.state = stateSelectClass
			m.selected = 0
			m.clearResult()
		case stateInputArgs:
			m.state = stateSelectMethod
			m.inputs = nil
		case stateREPL:
			m.prompt.Blur()
			m.state = stateSelectClass
			m.selected = 0
		}
		return nil, true
	}
	return nil, false
}

func (m *interactiveModel) listLen() int {
	if m.state == stateSelectMethod {
		return len(m.methods)
	}
	return len(m.classes)
}

func (m *interactiveModel) clearResult() {
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	method := m.methods[m.selected]
	m.params = make([]paramInfo, len(method.ArgTypes))
	m.inputs = make([]textinput.Model, len(method.ArgTypes))
	for i, t := range method.ArgTypes {
		wt := witType(t)
		m.params[i] = paramInfo{witType: wt, typeStr: witTypeStr(wt)}

		ti := textinput.New()
		ti.Placeholder = m.params[i].typeStr
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// receiver returns the expression a browser call is made on: the
// singleton of the class when there is one, a new instance otherwise.
func (m *interactiveModel) receiver() string {
	db := m.rt.Classes()
	for _, name := range db.Singletons() {
		if obj := db.Singleton(name); obj != nil && obj.ClassName() == m.class {
			return name
		}
	}
	return m.class + "()"
}

func (m *interactiveModel) callMethod() tea.Cmd {
	method := m.methods[m.selected]
	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = convertArg(input.Value(), m.params[i].witType)
	}
	return m.runChunk(fmt.Sprintf("%s.%s(%s)", m.receiver(), method.Name, strings.Join(args, ", ")))
}

func (m *interactiveModel) runChunk(src string) tea.Cmd {
	return func() tea.Msg {
		v, err := m.session.Run(context.Background(), src)
		msg := callResultMsg{src: src, err: err, output: m.out.Take()}
		if err == nil {
			msg.result = v.String()
		}
		return msg
	}
}

func (m *interactiveModel) recordResult(msg callResultMsg) {
	m.history = append(m.history, ">>> "+msg.src)
	if msg.output != "" {
		m.history = append(m.history, strings.Split(strings.TrimRight(msg.output, "\n"), "\n")...)
	}
	switch {
	case msg.err != nil:
		m.history = append(m.history, errorStyle.Render(msg.err.Error()))
	case msg.result != "None":
		m.history = append(m.history, resultStyle.Render(msg.result))
	}
	if len(m.history) > historyLines {
		m.history = m.history[len(m.history)-historyLines:]
	}

	m.result, m.err = msg.result, msg.err
	if m.state == stateInputArgs {
		m.state = stateSelectMethod
		m.inputs = nil
	}
}

// convertArg renders a typed input as a Starlark literal. Values of other
// types are passed through as expressions.
func convertArg(value string, t wit.Type) string {
	value = strings.TrimSpace(value)
	switch t.(type) {
	case wit.String:
		return strconv.Quote(value)
	case wit.S64:
		v, _ := strconv.ParseInt(value, 10, 64)
		return strconv.FormatInt(v, 10)
	case wit.F64:
		v, _ := strconv.ParseFloat(value, 64)
		return starlark.Float(v).String()
	case wit.Bool:
		if value == "true" || value == "1" || value == "True" {
			return "True"
		}
		return "False"
	}
	if value == "" {
		return "None"
	}
	return value
}

// witType maps a variant type onto the WIT primitive used to type its
// input. Vectors and objects have none.
func witType(t variant.Type) wit.Type {
	switch t {
	case variant.Bool:
		return wit.Bool{}
	case variant.Int:
		return wit.S64{}
	case variant.Float:
		return wit.F64{}
	case variant.String:
		return wit.String{}
	}
	return nil
}

func witTypeStr(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.S64:
		return "s64"
	case wit.F64:
		return "f64"
	case wit.String:
		return "string"
	case nil:
		return "expr"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func formatSignature(m starbind.MethodInfo) string {
	params := make([]string, len(m.ArgTypes))
	for i, t := range m.ArgTypes {
		params[i] = typeStyle.Render(witTypeStr(witType(t)))
	}
	result := ""
	if m.ReturnType != variant.Nil {
		result = " -> " + typeStyle.Render(m.ReturnType.String())
	}
	return funcStyle.Render(m.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("starbind"))
	b.WriteString(fmt.Sprintf(" %d classes\n\n", len(m.classes)))

	switch m.state {
	case stateSelectClass:
		b.WriteString("Select a class:\n\n")
		for i, class := range m.classes {
			line := class
			if parent := m.rt.Classes().ParentClass(class); parent != "" {
				line += typeStyle.Render("(" + parent + ")")
			}
			m.writeItem(&b, i, line)
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter methods • tab repl • q quit"))

	case stateSelectMethod:
		b.WriteString(fmt.Sprintf("Methods of %s:\n\n", funcStyle.Render(m.class)))
		if len(m.methods) == 0 {
			b.WriteString("  (none)\n")
		}
		for i, method := range m.methods {
			m.writeItem(&b, i, formatSignature(method))
		}
		m.writeResult(&b)
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc back • tab repl • q quit"))

	case stateInputArgs:
		method := m.methods[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s.%s\n\n", m.receiver(), funcStyle.Render(method.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(m.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateREPL:
		for _, line := range m.history {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(m.prompt.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc browser • ctrl+c quit"))
	}

	return b.String()
}

func (m *interactiveModel) writeItem(b *strings.Builder, i int, line string) {
	if i == m.selected {
		b.WriteString(selectedStyle.Render("> " + line))
	} else {
		b.WriteString("  " + line)
	}
	b.WriteString("\n")
}

func (m *interactiveModel) writeResult(b *strings.Builder) {
	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.result != "":
		b.WriteString("\n")
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n")
	}
}

func runInteractive(rt *runtime.Runtime, out *syncBuffer) error {
	p := tea.NewProgram(newInteractiveModel(rt, out), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
