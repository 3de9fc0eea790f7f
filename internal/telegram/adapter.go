package telegram

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/clipwatch/internal/dispatch"
	"github.com/user/clipwatch/internal/types"
)

const (
	maxTelegramMessage = 4096
	// maxThreadMessages bounds the per-chat history kept for media lookup.
	maxThreadMessages = 50
)

// Adapter exposes Telegram chats as the poller's inbox. Each FetchRecent
// drains pending bot updates, folds them into per-chat threads (newest
// first), and returns the most recently active threads. It also delivers
// the acknowledgement replies.
type Adapter struct {
	bot *tgbotapi.BotAPI

	mu      sync.Mutex
	threads map[int64]*thread
	offset  int
}

type thread struct {
	chatID   int64
	messages []types.Message // newest first
	lastSeen time.Time
}

var _ types.InboxSource = (*Adapter)(nil)
var _ types.ReplySender = (*Adapter)(nil)

// New creates a Telegram adapter.
func New(token string) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:     bot,
		threads: make(map[int64]*thread),
	}, nil
}

// FetchRecent drains pending updates and returns up to limit conversations,
// most recently active first.
func (a *Adapter) FetchRecent(ctx context.Context, limit int) ([]*types.Conversation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u := tgbotapi.NewUpdate(a.offset)
	u.Limit = 100
	updates, err := a.bot.GetUpdates(u)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	for _, update := range updates {
		if update.UpdateID >= a.offset {
			a.offset = update.UpdateID + 1
		}
		if update.Message == nil {
			continue
		}
		a.fold(update.Message)
	}

	threads := make([]*thread, 0, len(a.threads))
	for _, th := range a.threads {
		threads = append(threads, th)
	}
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].lastSeen.After(threads[j].lastSeen)
	})
	if len(threads) > limit {
		threads = threads[:limit]
	}

	convs := make([]*types.Conversation, 0, len(threads))
	for _, th := range threads {
		msgs := make([]types.Message, len(th.messages))
		copy(msgs, th.messages)
		convs = append(convs, &types.Conversation{
			ID:       types.ConversationID(strconv.FormatInt(th.chatID, 10)),
			Messages: msgs,
		})
	}
	return convs, nil
}

// fold prepends the message to its chat thread. Caller holds the lock.
func (a *Adapter) fold(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	th, ok := a.threads[chatID]
	if !ok {
		th = &thread{chatID: chatID}
		a.threads[chatID] = th
	}

	converted := convertMessage(msg, a.fileURL)
	th.messages = append([]types.Message{converted}, th.messages...)
	if len(th.messages) > maxThreadMessages {
		th.messages = th.messages[:maxThreadMessages]
	}
	if converted.Timestamp.After(th.lastSeen) {
		th.lastSeen = converted.Timestamp
	}
}

func (a *Adapter) fileURL(fileID string) string {
	url, err := a.bot.GetFileDirectURL(fileID)
	if err != nil {
		return ""
	}
	return url
}

// convertMessage maps a Telegram message onto the core message model.
// fileURL resolves a file id to a direct download URL and may return ""
// when resolution fails; the reference then carries no candidates.
func convertMessage(msg *tgbotapi.Message, fileURL func(string) string) types.Message {
	out := types.Message{
		ID:        types.MessageID(strconv.Itoa(msg.MessageID)),
		Text:      msg.Text,
		Timestamp: time.Unix(int64(msg.Date), 0),
	}
	if msg.From != nil {
		out.UserID = types.UserID(strconv.FormatInt(msg.From.ID, 10))
		out.Username = msg.From.UserName
		if out.Username == "" {
			out.Username = msg.From.FirstName
		}
	}

	switch {
	case msg.Video != nil:
		out.Media = &types.MediaReference{
			Kind:    types.MediaVideoShare,
			URLs:    urlCandidates(fileURL, msg.Video.FileID),
			Caption: msg.Caption,
		}
	case msg.VideoNote != nil:
		out.Media = &types.MediaReference{
			Kind:    types.MediaClip,
			URLs:    urlCandidates(fileURL, msg.VideoNote.FileID),
			Caption: msg.Caption,
		}
	case msg.Animation != nil:
		out.Media = &types.MediaReference{
			Kind:    types.MediaClip,
			URLs:    urlCandidates(fileURL, msg.Animation.FileID),
			Caption: msg.Caption,
		}
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "video/"):
		out.Media = &types.MediaReference{
			Kind:    types.MediaVideoShare,
			URLs:    urlCandidates(fileURL, msg.Document.FileID),
			Caption: msg.Caption,
		}
	}
	return out
}

func urlCandidates(fileURL func(string) string, fileID string) []string {
	if u := fileURL(fileID); u != "" {
		return []string{u}
	}
	return nil
}

// SendReply delivers the acknowledgement, splitting over the Telegram
// message size limit. Errors are classified for the dispatcher's retry
// decision.
func (a *Adapter) SendReply(_ context.Context, conv types.ConversationID, text string) error {
	chatID, err := strconv.ParseInt(string(conv), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad conversation id %q", dispatch.ErrFatal, conv)
	}
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		if _, err := a.bot.Send(msg); err != nil {
			return classifySendErr(err)
		}
	}
	return nil
}

// MarkSeen is the degraded acknowledgement after reply exhaustion. Bots
// have no read-receipt call, so a chat action is the closest visible
// signal on the user's side.
func (a *Adapter) MarkSeen(_ context.Context, conv types.ConversationID, _ types.MessageID) error {
	chatID, err := strconv.ParseInt(string(conv), 10, 64)
	if err != nil {
		return fmt.Errorf("bad conversation id %q", conv)
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := a.bot.Request(action); err != nil {
		return fmt.Errorf("send chat action: %w", err)
	}
	return nil
}

// classifySendErr maps Telegram API failures onto the dispatcher's retry
// taxonomy: auth/permission problems never heal, rate limits and server
// errors do.
func classifySendErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "chat not found") {
		return fmt.Errorf("%w: %v", dispatch.ErrFatal, err)
	}
	if strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "bad gateway") ||
		strings.Contains(msg, "timeout") {
		return fmt.Errorf("%w: %v", dispatch.ErrTransient, err)
	}
	return err
}

// splitMessage breaks text into chunks under the Telegram limit. The
// limit counts characters, not bytes, so chunks are cut on rune
// boundaries.
func splitMessage(text string) []string {
	runes := []rune(text)
	if len(runes) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(runes) > 0 {
		end := maxTelegramMessage
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[:end]))
		runes = runes[end:]
	}
	return parts
}
