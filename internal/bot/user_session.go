package bot

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// UserSession holds the in-memory state of one user's conversation.
// Nothing here outlives the process.
type UserSession struct {
	userId int64
	sender BotAPI

	mu           sync.Mutex
	generating   bool
	lastKeywords string
}

// beginGeneration marks a generation as in flight and remembers the keywords
// for "Try again". Returns false if one is already running.
func (s *UserSession) beginGeneration(keywords string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	s.lastKeywords = keywords
	return true
}

func (s *UserSession) endGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
}

func (s *UserSession) getLastKeywords() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKeywords
}

// sendTypingAction sends a "typing" chat action to show the user that the bot is processing.
// The typing indicator automatically expires after ~5 seconds in Telegram.
func (s *UserSession) sendTypingAction() {
	action := tgbotapi.NewChatAction(s.userId, tgbotapi.ChatTyping)
	// Use Request instead of Send because sendChatAction returns a boolean, not a Message
	_, err := s.sender.Request(action)
	if err != nil {
		log.Debug().Err(err).Int64("userId", s.userId).Msg("failed to send typing action")
	}
}

func (s *UserSession) replyWithMessage(msg tgbotapi.MessageConfig) tgbotapi.Message {
	msg.ChatID = s.userId
	sent, err := s.sender.Send(msg)
	if err != nil {
		log.Error().
			Int64("userId", s.userId).
			Err(fmt.Errorf("failed to send reply message: %w", err)).Send()
	} else {
		log.Debug().Int64("userId", s.userId).Int("messageId", sent.MessageID).Msg("sent message")
	}

	return sent
}

func (s *UserSession) reply(text string, a ...any) tgbotapi.Message {
	msg := tgbotapi.NewMessage(s.userId, formatReplyText(text, a...))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return s.replyWithMessage(msg)
}
