package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kessoku-hq/bocchi-life/internal/game"
	"github.com/kessoku-hq/bocchi-life/pkg/chat"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
	"github.com/kessoku-hq/bocchi-life/pkg/rules"
	"github.com/kessoku-hq/bocchi-life/pkg/schedule"
)

const (
	NarratorName    = "Narator"
	PlaceHolderText = "Apa yang ingin kamu lakukan?"
)

// chatLine is one entry in the transcript.
type chatLine struct {
	role    string // "user", "narrator" or "system"
	content string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	engine       *game.Engine
	player       *player.Player
	history      []chatLine
	choices      []chat.ActionChoice
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Origin selection state, shown until the player is registered
	showOriginModal bool
	selectedOrigin  int
	loadingProfile  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type profileLoadedMsg struct {
	player *player.Player
	err    error
}

type registeredMsg struct {
	player *player.Player
	err    error
}

type outcomeMsg struct {
	outcome *game.Outcome
	err     error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
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

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

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

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var originLabels = map[player.OriginStory]string{
	player.OriginMuridPindahan: "Murid pindahan",
	player.OriginTetangga:      "Tetangga keluarga Gotoh",
	player.OriginStafStarry:    "Staf baru STARRY",
}

func NewConsoleUI(engine *game.Engine) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		engine:         engine,
		textarea:       ta,
		chatViewport:   chatVp,
		metaViewport:   metaVp,
		loadingProfile: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadProfile()
}

func (m ConsoleUI) loadProfile() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		p, err := engine.Profile(ctx, consolePlayerID)
		return profileLoadedMsg{p, err}
	}
}

func (m ConsoleUI) register(origin player.OriginStory) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		p, err := engine.Register(ctx, consolePlayerID, origin)
		return registeredMsg{p, err}
	}
}

// runAction executes one engine call off the UI goroutine.
func (m ConsoleUI) runAction(fn func(ctx context.Context) (*game.Outcome, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		out, err := fn(ctx)
		return outcomeMsg{out, err}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showOriginModal || m.loadingProfile {
		return m.updateOriginModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeChatContent()
		m.writeMetadata()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.dispatch(input)
		}

	case outcomeMsg:
		m.loading = false
		if msg.err != nil {
			m.history = append(m.history, chatLine{"system", friendlyError(msg.err)})
		} else if msg.outcome.Refused {
			m.history = append(m.history, chatLine{"system", msg.outcome.Reason})
			m.player = msg.outcome.Player
		} else {
			m.player = msg.outcome.Player
			m.choices = msg.outcome.Narration.Choices
			m.history = append(m.history, chatLine{"narrator", msg.outcome.Narration.Narration})
			if delta := formatDelta(msg.outcome.Narration.StatChanges); delta != "" {
				m.history = append(m.history, chatLine{"system", delta})
			}
		}
		m.writeChatContent()
		m.writeMetadata()
		m.chatViewport.GotoBottom()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// dispatch routes one input line: slash commands, choice numbers, or a
// free-form action.
func (m ConsoleUI) dispatch(input string) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	// A bare number picks a pending choice.
	if n, err := strconv.Atoi(input); err == nil && len(m.choices) > 0 {
		return m.startAction(input, func(ctx context.Context) (*game.Outcome, error) {
			return m.engine.DynamicChoice(ctx, consolePlayerID, n-1)
		})
	}

	return m.startAction(input, func(ctx context.Context) (*game.Outcome, error) {
		return m.engine.FreeAction(ctx, consolePlayerID, input)
	})
}

func (m ConsoleUI) startAction(echo string, fn func(ctx context.Context) (*game.Outcome, error)) (tea.Model, tea.Cmd) {
	m.loading = true
	m.progressTick = 0
	m.choices = nil
	m.history = append(m.history, chatLine{"user", echo})
	m.writeChatContent()
	return m, tea.Batch(m.runAction(fn), progressTick())
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	switch cmd {
	case "/help":
		helpText := `
Perintah:
• /go <tempat> - pergi ke suatu tempat
• /aksi <jenis> [target] - aksi terstruktur
• /tempat - daftar tempat
• /help - bantuan ini
• Ctrl+C - keluar

Cara main:
• Ketik aksimu dengan kata-kata sendiri dan tekan Enter
• Ketik angka untuk memilih salah satu pilihan yang muncul
`
		m.history = append(m.history, chatLine{"system", titleStyle.Render("Bantuan:") + helpText})
		m.writeChatContent()
		m.chatViewport.GotoBottom()

	case "/tempat":
		var b strings.Builder
		b.WriteString("Tempat yang dikenal:\n")
		for _, key := range schedule.LocationKeys() {
			if loc, err := schedule.GetLocation(key); err == nil {
				fmt.Fprintf(&b, "• %s - %s\n", key, loc.DisplayName)
			}
		}
		m.history = append(m.history, chatLine{"system", b.String()})
		m.writeChatContent()
		m.chatViewport.GotoBottom()

	case "/go":
		target := arg
		return m.startAction(input, func(ctx context.Context) (*game.Outcome, error) {
			return m.engine.GoTo(ctx, consolePlayerID, target)
		})

	case "/aksi":
		parts := strings.Fields(arg)
		if len(parts) == 0 {
			kinds := make([]string, 0, 5)
			for _, a := range rules.Actions() {
				kinds = append(kinds, string(a))
			}
			m.history = append(m.history, chatLine{"system", "Jenis aksi: " + strings.Join(kinds, ", ")})
			m.writeChatContent()
			break
		}
		kind := rules.Action(parts[0])
		target := strings.Join(parts[1:], " ")
		return m.startAction(input, func(ctx context.Context) (*game.Outcome, error) {
			return m.engine.StructuredAction(ctx, consolePlayerID, kind, target)
		})

	default:
		m.history = append(m.history, chatLine{"system", "Perintah tidak dikenal. Coba /help."})
		m.writeChatContent()
	}

	return m, nil
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

// writeChatContent rebuilds the transcript for the current width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("BOCCHI LIFE") + "\n\n")
	content.WriteString("Kehidupan kecilmu di Shimokitazawa.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, line := range m.history {
		switch line.role {
		case "narrator":
			content.WriteString(narratorStyle.Render(NarratorName+": ") +
				wordwrap.String(line.content, max(chatWidth-len(NarratorName)-2, 10)) + "\n\n")
		case "user":
			content.WriteString(userStyle.Render("Kamu: ") +
				wordwrap.String(line.content, max(chatWidth-6, 10)) + "\n\n")
		default:
			content.WriteString(wordwrap.String(line.content, max(chatWidth, 10)) + "\n\n")
		}
	}

	if len(m.choices) > 0 && !m.loading {
		content.WriteString(titleStyle.Render("Pilihan:") + "\n")
		for i, c := range m.choices {
			fmt.Fprintf(&content, "%d. %s (-%d energi)\n", i+1, c.Label, c.EnergyCost)
		}
		content.WriteString("\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("DUNIA") + "\n\n")

	snap := m.engine.Clock().Now()
	fmt.Fprintf(&content, "%s, %02d:%02d JST\n", snap.DayName, snap.Hour, snap.Minute)
	fmt.Fprintf(&content, "Periode: %s\n\n", snap.Period)

	if m.player != nil {
		fmt.Fprintf(&content, "Energi: %d/%d\n", m.player.Energy, player.MaxEnergy)
		fmt.Fprintf(&content, "Cuaca: %s\n\n", m.player.CurrentWeather)

		content.WriteString("Kenalan:\n")
		if len(m.player.KnownCharacters) == 0 {
			content.WriteString("Belum ada\n")
		}
		for _, name := range schedule.Characters() {
			if !m.player.Knows(name) {
				continue
			}
			rel := m.player.Relationships[name]
			fmt.Fprintf(&content, "• %s (%d/%d/%d)\n", name, rel.Trust, rel.Comfort, rel.Affection)
		}
	}

	content.WriteString("\n")
	content.WriteString("Perintah:\n")
	content.WriteString("• Ctrl+C: Keluar\n")
	content.WriteString("• Enter: Kirim\n")
	content.WriteString("• /help: Bantuan\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) updateOriginModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case profileLoadedMsg:
		m.loadingProfile = false
		if errors.Is(msg.err, game.ErrNotRegistered) {
			m.showOriginModal = true
		} else if msg.err != nil {
			m.err = msg.err
		} else {
			m.player = msg.player
			m.finishSetup()
			return m, textarea.Blink
		}

	case registeredMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.player = msg.player
			m.showOriginModal = false
			m.history = append(m.history, chatLine{"system",
				"Kehidupan barumu dimulai sebagai " + originLabels[m.player.OriginStory] + ". Coba /go starry."})
			m.finishSetup()
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.err != nil || m.loadingProfile {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedOrigin > 0 {
				m.selectedOrigin--
			}
		case tea.KeyDown:
			if m.selectedOrigin < len(player.OriginStories())-1 {
				m.selectedOrigin++
			}
		case tea.KeyEnter:
			origin := player.OriginStories()[m.selectedOrigin]
			m.loading = true
			return m, m.register(origin)
		}
	}

	return m, nil
}

func (m *ConsoleUI) finishSetup() {
	if m.width > 0 && m.height > 0 {
		m.resize()
		m.ready = true
	}
	m.writeChatContent()
	m.writeMetadata()
	m.textarea.Focus()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showOriginModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
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
	content.WriteString(modalTitleStyle.Render("Keluar?"))
	content.WriteString("\n\n")
	content.WriteString("Kemajuanmu tersimpan otomatis.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Y untuk keluar, N untuk lanjut"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderOriginModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingProfile:
		content.WriteString(modalTitleStyle.Render("Memuat..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
		content.WriteString("\n\n")
		content.WriteString("Ctrl+C untuk keluar")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Menyiapkan kehidupan barumu..."))
	default:
		content.WriteString(modalTitleStyle.Render("Siapa dirimu?"))
		content.WriteString("\n\n")
		for i, o := range player.OriginStories() {
			if i == m.selectedOrigin {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + originLabels[o]))
			} else {
				content.WriteString(modalItemStyle.Render("  " + originLabels[o]))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("↑/↓ untuk memilih, Enter untuk mulai, Ctrl+C untuk keluar"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showOriginModal || m.loadingProfile {
		return m.renderOriginModal()
	}
	if !m.ready {
		return "\n  Memuat..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated bar for the LLM round trip.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
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
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return loadingStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, game.ErrNoEnergy):
		return "Energimu habis. Energi pulih setiap pukul 05:00."
	case errors.Is(err, game.ErrChoiceExpired):
		return "Pilihan itu sudah kedaluwarsa."
	default:
		return errorStyle.Render("Error: " + err.Error())
	}
}

func formatDelta(delta player.StatDelta) string {
	if delta.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(delta))
	for _, field := range player.StatFields() {
		if v, ok := delta[field]; ok && v != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", field, v))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return promptStyle.Render("(" + strings.Join(parts, ", ") + ")")
}
