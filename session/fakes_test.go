// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
)

const botID = "bot"

type fakeMessage struct {
	id        string
	channelID string
	authorID  string
	msg       render.Message
	edits     int
}

// fakePlatform keeps channel messages in memory. Message IDs increase with
// send order so history can be returned newest first.
type fakePlatform struct {
	mu       sync.Mutex
	nextID   int
	channels map[string][]string // scope -> channels
	messages map[string]*fakeMessage

	sendErr    error
	editErr    error
	deleteErr  error
	historyErr map[string]error
	listErr    map[string]error // scope -> channel listing failure
	deleted    []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channels:   map[string][]string{},
		messages:   map[string]*fakeMessage{},
		historyErr: map[string]error{},
		listErr:    map[string]error{},
	}
}

func (p *fakePlatform) addChannel(scopeID, channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[scopeID] = append(p.channels[scopeID], channelID)
}

// post adds a message as if it had been sent before the process started.
func (p *fakePlatform) post(channelID, authorID, content string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := strconv.Itoa(p.nextID)
	p.messages[id] = &fakeMessage{
		id:        id,
		channelID: channelID,
		authorID:  authorID,
		msg:       render.Message{Content: content},
	}
	return id
}

func (p *fakePlatform) message(id string) (fakeMessage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.messages[id]
	if !ok {
		return fakeMessage{}, false
	}
	return *m, true
}

func (p *fakePlatform) SendPoll(ctx context.Context, channelID string, msg render.Message) (string, error) {
	if p.sendErr != nil {
		return "", p.sendErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := strconv.Itoa(p.nextID)
	p.messages[id] = &fakeMessage{id: id, channelID: channelID, authorID: botID, msg: msg}
	return id, nil
}

func (p *fakePlatform) EditPoll(ctx context.Context, channelID, messageID string, msg render.Message) error {
	if p.editErr != nil {
		return p.editErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.messages[messageID]
	if !ok || m.channelID != channelID {
		return fmt.Errorf("edit %s: %w", messageID, models.ErrTransientDelivery)
	}
	m.msg = msg
	m.edits++
	return nil
}

func (p *fakePlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.messages[messageID]; !ok {
		return fmt.Errorf("delete %s: %w", messageID, models.ErrTransientDelivery)
	}
	delete(p.messages, messageID)
	p.deleted = append(p.deleted, messageID)
	return nil
}

func (p *fakePlatform) Servers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []string
	for scopeID := range p.channels {
		ids = append(ids, scopeID)
	}
	sort.Strings(ids)
	return ids
}

func (p *fakePlatform) TextChannels(ctx context.Context, scopeID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.listErr[scopeID]; err != nil {
		return nil, err
	}
	return append([]string(nil), p.channels[scopeID]...), nil
}

func (p *fakePlatform) History(ctx context.Context, channelID string, limit int) ([]models.HistoryMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.historyErr[channelID]; err != nil {
		return nil, err
	}

	var out []models.HistoryMessage
	for _, m := range p.messages {
		if m.channelID == channelID {
			out = append(out, models.HistoryMessage{
				ID:        m.id,
				ChannelID: m.channelID,
				AuthorID:  m.authorID,
				Content:   m.msg.Content,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)
		return a > b
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p *fakePlatform) BotUserID() string { return botID }

// fakeInteraction records what the controller sent back to the user.
type fakeInteraction struct {
	mu      sync.Mutex
	ackErr  error
	acked   int
	notices []string
	dialogs []render.Dialog
}

func (ix *fakeInteraction) Ack(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.ackErr != nil {
		return ix.ackErr
	}
	ix.acked++
	return nil
}

func (ix *fakeInteraction) Notify(ctx context.Context, text string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.notices = append(ix.notices, text)
	return nil
}

func (ix *fakeInteraction) Confirm(ctx context.Context, dialog render.Dialog) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dialogs = append(ix.dialogs, dialog)
	return nil
}

// countingStore wraps a Store and counts mutating calls.
type countingStore struct {
	Store
	mu      sync.Mutex
	creates int
	deletes int
}

func (s *countingStore) CreatePoll(ctx context.Context, question string, options []string, scopeID string) (int64, error) {
	s.mu.Lock()
	s.creates++
	s.mu.Unlock()
	return s.Store.CreatePoll(ctx, question, options, scopeID)
}

func (s *countingStore) DeletePoll(ctx context.Context, pollID int64, scopeID string) error {
	s.mu.Lock()
	s.deletes++
	s.mu.Unlock()
	return s.Store.DeletePoll(ctx, pollID, scopeID)
}
