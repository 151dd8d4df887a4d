package bot

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/listing-genius/internal/listing"
	"github.com/raine/listing-genius/internal/llm"
	"github.com/rs/zerolog/log"
)

const defaultGenerateTimeout = 90 * time.Second

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options configures who may use the bot and how long a generation may take.
type Options struct {
	AdminID    int64
	AllowedIDs []int64
	Timeout    time.Duration
}

// Bot is the main Telegram bot handler.
type Bot struct {
	tg        BotAPI
	state     BotState
	generator llm.ListingGenerator
	adminID   int64
	allowed   map[int64]bool
	timeout   time.Duration
}

// NewBot creates a new Bot instance.
func NewBot(tg BotAPI, generator llm.ListingGenerator, opts Options) *Bot {
	bot := &Bot{
		tg:        tg,
		generator: generator,
		adminID:   opts.AdminID,
		allowed:   make(map[int64]bool, len(opts.AllowedIDs)),
		timeout:   opts.Timeout,
	}
	if bot.timeout <= 0 {
		bot.timeout = defaultGenerateTimeout
	}
	for _, id := range opts.AllowedIDs {
		bot.allowed[id] = true
	}
	bot.state = bot.NewBotState()
	return bot
}

func (b *Bot) isAllowed(userId int64) bool {
	return userId == b.adminID || b.allowed[userId]
}

// HandleUpdate is the main message router. It is safe to call from multiple
// goroutines.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var userId int64

	if update.CallbackQuery != nil {
		userId = update.CallbackQuery.From.ID
	} else if update.Message != nil && update.Message.From != nil {
		userId = update.Message.From.ID
	} else {
		return
	}

	if !b.isAllowed(userId) {
		log.Debug().Int64("userId", userId).Msg("dropping update from unknown user")
		return // Silent drop
	}

	session := b.state.getUserSession(userId)

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, session, update.CallbackQuery)
		return
	}

	log.Info().Int64("userId", userId).Str("text", update.Message.Text).Msg("got message")
	b.handleTextMessage(ctx, session, update.Message)
}

func (b *Bot) handleTextMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	text := strings.TrimSpace(message.Text)
	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, session, text)
		return
	}

	keywords, ok := listing.Request{Keywords: text}.Normalized()
	if !ok {
		session.reply(MsgKeywordsMissing)
		return
	}
	b.generate(ctx, session, keywords)
}

func (b *Bot) handleCommand(ctx context.Context, session *UserSession, text string) {
	command, args := parseCommand(text)
	switch command {
	case "/start", "/help":
		session.reply(MsgStart)
	case "/markets":
		keywords, ok := listing.Request{Keywords: strings.Join(args, " ")}.Normalized()
		if !ok {
			session.reply(MsgMarketsUsage)
			return
		}
		msg := tgbotapi.NewMessage(session.userId, MsgMarketsHeader)
		msg.ReplyMarkup = marketLinksKeyboard(keywords)
		session.replyWithMessage(msg)
	default:
		session.reply(MsgUnknownCommand)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	// Stop the loading indicator on the button
	if _, err := b.tg.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Debug().Err(err).Msg("failed to answer callback query")
	}

	switch query.Data {
	case callbackRetry:
		keywords := session.getLastKeywords()
		if keywords == "" {
			session.reply(MsgNothingToRetry)
			return
		}
		b.generate(ctx, session, keywords)
	default:
		log.Warn().Str("data", query.Data).Msg("unknown callback data")
	}
}

// generate runs one listing generation for the session. Only one generation
// per user runs at a time. A started generation is not cancelled with ctx so
// that shutdown can drain it; it is bounded by the generate timeout only.
func (b *Bot) generate(ctx context.Context, session *UserSession, keywords string) {
	if !session.beginGeneration(keywords) {
		session.reply(MsgStillGenerating)
		return
	}
	defer session.endGeneration()

	session.reply(MsgGenerating)
	session.sendTypingAction()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	result, err := b.generator.Generate(ctx, keywords)
	if err != nil {
		b.replyGenerationError(session, err)
		return
	}

	listingMsg := tgbotapi.NewMessage(session.userId, formatListingMessage(result.Listing))
	listingMsg.ParseMode = tgbotapi.ModeHTML
	listingMsg.DisableWebPagePreview = true
	session.replyWithMessage(listingMsg)

	refsMsg := tgbotapi.NewMessage(session.userId, formatReferencesMessage(result))
	refsMsg.ParseMode = tgbotapi.ModeHTML
	refsMsg.DisableWebPagePreview = true
	refsMsg.ReplyMarkup = marketLinksKeyboard(keywords)
	session.replyWithMessage(refsMsg)
}

func (b *Bot) replyGenerationError(session *UserSession, err error) {
	if errors.Is(err, llm.ErrConfiguration) {
		session.reply(MsgConfigurationError)
		return
	}

	log.Warn().Err(err).Int64("userId", session.userId).Msg("listing generation failed")
	msg := tgbotapi.NewMessage(session.userId, formatReplyText(MsgGenerationFailed, html.EscapeString(llm.ErrCommunication.Error())))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = retryKeyboard()
	session.replyWithMessage(msg)
}
