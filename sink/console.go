// Package sink contains the event consumers: console rendering and
// the transcript feed for the exit summary.
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"

	"serenity-chat/domain/event"
)

const botName = "Serenity"

// Console renders the conversation to a terminal. Partial reveals repaint
// the current line; notifications are printed as one-line toasts.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
}

func NewConsole(out io.Writer, colours bool) *Console {
	return &Console{out: out, colours: colours}
}

func (c *Console) Consume(_ context.Context, e event.ConversationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch evt := e.(type) {
	case event.UserMessageAppended:
		fmt.Fprintf(c.out, "%s %s\n", c.render("You:", color.FgCyan), evt.Content)
	case event.BotMessagePending:
		fmt.Fprintf(c.out, "%s\n", c.render(botName+" is typing...", color.FgDarkGray))
	case event.ReplyRevealed:
		// Repaint the line in place as the text grows.
		fmt.Fprintf(c.out, "\r\033[K%s %s", c.render(botName+":", color.FgGreen), evt.Displayed)
	case event.ReplyCompleted:
		fmt.Fprintf(c.out, "\r\033[K%s %s\n", c.render(botName+":", color.FgGreen), evt.Content)
		fmt.Fprintf(c.out, "%s\n", c.render("New message: "+botName+" has responded to your message", color.FgDarkGray))
	case event.AdvisoryRaised:
		fmt.Fprintf(c.out, "%s\n", c.render("Notice: "+evt.Notice, color.FgYellow))
	case event.SendFailed:
		fmt.Fprintf(c.out, "%s\n", c.render("There was a problem sending your message. Please try again.", color.FgRed))
	}
	return nil
}

func (c *Console) render(s string, fg color.Color) string {
	if !c.colours {
		return s
	}
	return color.New(fg).Render(s)
}
