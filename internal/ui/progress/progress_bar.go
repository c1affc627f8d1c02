package progress

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/huncholane/dothub/internal/ui/styles"
)

const barWidth = 40

type progressUpdate struct {
	current int
	message string
}

// ProgressBar shows "<bar> NN% <message>" over a known number of steps.
// dothub update draws one step per repository.
type ProgressBar struct {
	runner
	total int
	last  progressUpdate // shown on start; guarded by runner.mu
}

type progressBarModel struct {
	bar   progress.Model
	total int
	progressUpdate
}

func (m progressBarModel) Init() tea.Cmd {
	return nil
}

func (m progressBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(progressUpdate); ok {
		m.progressUpdate = msg
		return m, nil
	}
	var cmd tea.Cmd
	m.bar, cmd = m.bar.Update(msg)
	return m, cmd
}

func (m progressBarModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	percent := fraction(m.current, m.total)
	return tea.NewView(fmt.Sprintf("%s %3d%% %s", m.bar.ViewAs(percent), int(percent*100), m.message))
}

// fraction is current/total clamped to [0, 1]; an empty total is 0.
func fraction(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(float64(current)/float64(total), 0), 1)
}

// NewProgressBar creates a bar on out for total steps, starting at message.
func NewProgressBar(out io.Writer, total int, message string) *ProgressBar {
	return &ProgressBar{
		runner: runner{out: out},
		total:  total,
		last:   progressUpdate{message: message},
	}
}

// Start begins drawing. Calling it again has no effect.
func (p *ProgressBar) Start() {
	p.start(func() tea.Model {
		bar := progress.New(
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
			progress.WithColors(styles.Primary, styles.Accent),
		)
		return progressBarModel{bar: bar, total: p.total, progressUpdate: p.last}
	})
}

// SetProgress moves the bar to current steps done, labelled message.
func (p *ProgressBar) SetProgress(current int, message string) {
	u := progressUpdate{current: current, message: message}
	p.send(u, func() { p.last = u })
}

// Stop ends the display and clears the line.
func (p *ProgressBar) Stop() {
	p.stop()
}
