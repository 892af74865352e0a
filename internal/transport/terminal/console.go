package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"scale-trainer/internal/app"
	"scale-trainer/internal/domain"
)

const progressWidth = 30

// Console is a line-driven presentation of one player's trainer.
type Console struct {
	service       *app.TrainerService
	playerID      string
	frameInterval time.Duration

	title  lipgloss.Style
	status lipgloss.Style
	prompt lipgloss.Style
	option lipgloss.Style
	alert  lipgloss.Style
}

func NewConsole(service *app.TrainerService, playerID string, frameInterval time.Duration) *Console {
	if frameInterval <= 0 {
		frameInterval = 100 * time.Millisecond
	}
	return &Console{
		service:       service,
		playerID:      playerID,
		frameInterval: frameInterval,
		title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		status:        lipgloss.NewStyle().Faint(true),
		prompt:        lipgloss.NewStyle().Bold(true),
		option:        lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()),
		alert:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Run reads intents from in until it is exhausted, "q" is entered or ctx is done.
// Accepted input: "s" starts a round, "1"-"4" answers.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	view, err := c.service.Attach(ctx, c.playerID)
	if err != nil {
		return err
	}
	defer c.service.Leave(context.WithoutCancel(ctx), c.playerID)
	fmt.Fprintln(out, c.Render(view))

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(c.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next, err := c.service.Tick(ctx, c.playerID)
			if err != nil {
				return err
			}
			if view.Running && !next.Running {
				fmt.Fprintln(out, c.Render(next))
			}
			view = next
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			next, quit := c.handle(ctx, strings.TrimSpace(strings.ToLower(line)), out)
			if quit {
				return nil
			}
			if next != nil {
				view = *next
				fmt.Fprintln(out, c.Render(view))
			}
		}
	}
}

func (c *Console) handle(ctx context.Context, input string, out io.Writer) (*domain.RoundView, bool) {
	switch input {
	case "q", "quit":
		return nil, true
	case "s", "start":
		view, err := c.service.Start(ctx, c.playerID)
		if err != nil {
			fmt.Fprintln(out, c.alert.Render(err.Error()))
			return nil, false
		}
		return &view, false
	case "1", "2", "3", "4":
		n, _ := strconv.Atoi(input)
		_, view, err := c.service.Answer(ctx, c.playerID, n-1)
		if err != nil {
			fmt.Fprintln(out, c.alert.Render(err.Error()))
			return nil, false
		}
		return &view, false
	case "":
		return nil, false
	default:
		fmt.Fprintln(out, c.alert.Render("enter s to start, 1-4 to answer, q to quit"))
		return nil, false
	}
}

// Render draws a view as a block of text.
func (c *Console) Render(view domain.RoundView) string {
	lines := []string{
		c.title.Render("Scale Trainer"),
		fmt.Sprintf("Score: %d", view.Score),
	}
	if view.Status != "" {
		lines = append(lines, c.status.Render(view.Status))
	}
	if view.Running {
		lines = append(lines,
			progressBar(view.TimeLeft),
			c.prompt.Render(fmt.Sprintf("Key: %s - Scale Step: %d", view.Key, view.Step)),
		)
		buttons := make([]string, len(view.Options))
		for i, opt := range view.Options {
			buttons[i] = c.option.Render(fmt.Sprintf("%d: %s", i+1, opt))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	} else {
		lines = append(lines, fmt.Sprintf("Highscore: %d", view.HighScore), "[s] Start")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func progressBar(fraction float64) string {
	fraction = math.Max(0, math.Min(1, fraction))
	filled := int(math.Round(fraction * progressWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}
