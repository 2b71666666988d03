// Package chat is the draft room's side channel: a bounded, append-only
// message buffer, independent of draft phase.
package chat

import (
	"slices"
	"strings"
	"time"
)

const (
	MaxMessageLen = 200
	Capacity      = 100
)

type Message struct {
	AuthorID  string    `json:"authorId"`
	Author    string    `json:"author"`
	Spectator bool      `json:"spectator,omitempty"`
	Text      string    `json:"text"`
	At        time.Time `json:"at"`
}

type Log struct {
	msgs []Message
}

func NewLog() *Log {
	return &Log{}
}

// Post appends a message, truncating long text and evicting the oldest
// entry past capacity. Empty or whitespace-only text is dropped and
// reported via ok=false.
func (l *Log) Post(authorID, author string, spectator bool, text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}
	if len(text) > MaxMessageLen {
		text = text[:MaxMessageLen]
	}

	msg := Message{
		AuthorID:  authorID,
		Author:    author,
		Spectator: spectator,
		Text:      text,
		At:        time.Now(),
	}
	l.msgs = append(l.msgs, msg)
	if len(l.msgs) > Capacity {
		l.msgs = l.msgs[len(l.msgs)-Capacity:]
	}
	return msg, true
}

// History returns a copy of the retained messages, oldest first. The
// copy may safely outlive the next Post.
func (l *Log) History() []Message {
	return slices.Clone(l.msgs)
}
