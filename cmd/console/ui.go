package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/duskmantle/beacon/pkg/play"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	current       *play.Response
	storyViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Choice selection state
	selectedChoice int

	// Live mode entry state
	showLiveModal bool
	liveInput     textarea.Model

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type playResponseMsg struct {
	response *play.Response
	err      error
}

type progressTickMsg struct{}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narrativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	visualStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Italic(true)

	rollStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, first *play.Response) ConsoleUI {
	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ta := textarea.New()
	ta.Placeholder = "https://api.example.com/v1"
	ta.CharLimit = 300
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	return ConsoleUI{
		config:        cfg,
		client:        client,
		current:       first,
		storyViewport: storyVp,
		metaViewport:  metaVp,
		liveInput:     ta,
	}
}

// writeStoryContent renders the current node into the story viewport.
func (m *ConsoleUI) writeStoryContent() {
	storyWidth := m.storyViewport.Width - 6
	if storyWidth < 20 {
		storyWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("BEACON") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", storyWidth-6)) + "\n\n")

	if m.current != nil {
		if m.current.Roll != "" {
			content.WriteString(rollStyle.Render(m.current.Roll) + "\n\n")
		}
		if m.current.Visual != "" {
			content.WriteString(visualStyle.Render("["+m.current.Visual+"]") + "\n\n")
		}
		content.WriteString(narrativeStyle.Render(wordwrap.String(m.current.Text, storyWidth)) + "\n\n")

		for i, choice := range m.current.Choices {
			line := fmt.Sprintf("%d. %s", i+1, choice.Text)
			if i == m.selectedChoice {
				content.WriteString(selectedChoiceStyle.Render("▶ "+line) + "\n")
			} else {
				content.WriteString(choiceStyle.Render("  "+line) + "\n")
			}
		}
		if len(m.current.Choices) == 0 {
			content.WriteString(promptStyle.Render("No choices available.") + "\n")
		}
	}

	if m.loading {
		content.WriteString("\n" + m.renderProgressBar())
	}

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	m.storyViewport.SetContent(content.String())
	m.storyViewport.GotoBottom()
}

func writeMetadata(resp *play.Response) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(resp.SessionID.String()[:8] + "...\n\n")

	content.WriteString(fmt.Sprintf("Sanity: %d\n\n", resp.Stats.Sanity))

	content.WriteString("Inventory:\n")
	if len(resp.Stats.Inventory) == 0 {
		content.WriteString("Empty\n")
	} else {
		for _, item := range resp.Stats.Inventory {
			content.WriteString("• " + item + "\n")
		}
	}
	content.WriteString("\n")

	if len(resp.Stats.Attributes) > 0 {
		content.WriteString("Attributes:\n")
		for name, v := range resp.Stats.Attributes {
			content.WriteString(fmt.Sprintf("• %s: %d\n", name, v))
		}
		content.WriteString("\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• ↑/↓: Select\n")
	content.WriteString("• Enter: Choose\n")
	content.WriteString("• 1-9: Quick choose\n")
	content.WriteString("• L: Live mode\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showLiveModal {
		return m.updateLiveModal(msg)
	}

	var vpCmd, mvCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		storyWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - storyWidth - 6

		m.storyViewport.Width = storyWidth - 2
		m.storyViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeStoryContent()
		if m.current != nil {
			m.metaViewport.SetContent(writeMetadata(m.current))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyUp:
			if m.selectedChoice > 0 {
				m.selectedChoice--
				m.writeStoryContent()
			}
			return m, nil

		case tea.KeyDown:
			if m.current != nil && m.selectedChoice < len(m.current.Choices)-1 {
				m.selectedChoice++
				m.writeStoryContent()
			}
			return m, nil

		case tea.KeyEnter:
			return m.choose(m.selectedChoice)
		}

		switch s := msg.String(); {
		case s >= "1" && s <= "9":
			idx := int(s[0] - '1')
			if m.current != nil && idx < len(m.current.Choices) {
				return m.choose(idx)
			}
		case s == "l" || s == "L":
			m.showLiveModal = true
			m.liveInput.Reset()
			m.liveInput.Focus()
			return m, textarea.Blink
		}

	case playResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.current = msg.response
			m.selectedChoice = 0
			m.metaViewport.SetContent(writeMetadata(m.current))
		}
		m.writeStoryContent()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeStoryContent()
			return m, progressTick()
		}
	}

	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m ConsoleUI) choose(index int) (tea.Model, tea.Cmd) {
	if m.loading || m.current == nil || index >= len(m.current.Choices) {
		return m, nil
	}
	m.loading = true
	m.err = nil
	m.progressTick = 0
	m.writeStoryContent()
	return m, tea.Batch(m.sendChoiceCmd(index), progressTick())
}

func (m ConsoleUI) sendChoiceCmd(index int) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendChoice(m.client, m.config.APIBaseURL, m.current.SessionID, index)
		return playResponseMsg{resp, err}
	}
}

func (m ConsoleUI) enterLiveCmd(endpoint string) tea.Cmd {
	return func() tea.Msg {
		req := play.LiveRequest{
			Endpoint: endpoint,
			Key:      os.Getenv("LIVE_API_KEY"),
			Model:    os.Getenv("LIVE_MODEL"),
		}
		resp, err := enterLiveMode(m.client, m.config.APIBaseURL, m.current.SessionID, req)
		return playResponseMsg{resp, err}
	}
}

func (m ConsoleUI) updateLiveModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showLiveModal = false
			return m, nil
		case tea.KeyEnter:
			endpoint := strings.TrimSpace(m.liveInput.Value())
			m.showLiveModal = false
			if endpoint == "" {
				return m, nil
			}
			m.loading = true
			m.progressTick = 0
			m.writeStoryContent()
			return m, tea.Batch(m.enterLiveCmd(endpoint), progressTick())
		}
	}

	var cmd tea.Cmd
	m.liveInput, cmd = m.liveInput.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to abandon the story?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderLiveModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Enter Live Mode"))
	content.WriteString("\n\n")
	content.WriteString("Generation endpoint URL:")
	content.WriteString("\n\n")
	content.WriteString(m.liveInput.View())
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Enter to confirm, Esc to cancel"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showLiveModal {
		return m.renderLiveModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		m.storyViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.storyViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
