// Package bot runs the optional Telegram admin bot. It posts registrations
// and assignment changes to the admin chat and answers /stats there.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/service"
	"taxiservice/storage"
)

var _ service.Notifier = (*Bot)(nil)

var ErrNoToken = errors.New("admin bot token is not configured")

const sendTimeout = 10 * time.Second

type Bot struct {
	Bot    *tele.Bot
	Stg    storage.IStorage
	Log    logger.ILogger
	ChatID int64

	// send delivers one message; tests swap it out.
	send func(chatID int64, text string) error
}

// New builds the bot. With an empty token it returns ErrNoToken and the
// caller runs without notifications.
func New(cfg *config.Config, stg storage.IStorage, log logger.ILogger) (*Bot, error) {
	if cfg.AdminBotToken == "" {
		return nil, ErrNoToken
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.AdminBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return newBot(b, cfg.AdminChatID, stg, log), nil
}

func newBot(b *tele.Bot, chatID int64, stg storage.IStorage, log logger.ILogger) *Bot {
	bot := &Bot{
		Bot:    b,
		Stg:    stg,
		Log:    log,
		ChatID: chatID,
	}
	bot.send = func(chatID int64, text string) error {
		_, err := bot.Bot.Send(tele.ChatID(chatID), text)
		return err
	}
	bot.registerHandlers()
	return bot
}

// Start polls for updates until Stop is called.
func (b *Bot) Start() {
	b.Log.Info("admin bot started", logger.Int64("chat_id", b.ChatID))
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/stats", b.handleStats)
}

// fromAdminChat keeps strangers who find the bot out of the numbers.
func (b *Bot) fromAdminChat(c tele.Context) bool {
	return c.Chat() != nil && c.Chat().ID == b.ChatID
}

func (b *Bot) handleStart(c tele.Context) error {
	if !b.fromAdminChat(c) {
		return c.Send(fmt.Sprintf("This bot only serves the taxi service admin chat. Your chat id is %d.", c.Chat().ID))
	}
	return c.Send("Taxi service admin bot.\n/stats shows how many drivers, cars and manufacturers are registered.")
}

func (b *Bot) handleStats(c tele.Context) error {
	if !b.fromAdminChat(c) {
		return nil
	}
	stats, err := b.Stg.Stats(context.Background())
	if err != nil {
		b.Log.Error("failed to load stats for bot", logger.Error(err))
		return c.Send("Could not load statistics.")
	}
	return c.Send(formatStats(stats))
}

func (b *Bot) DriverRegistered(_ context.Context, d *models.Driver) {
	b.notify(formatRegistration(d))
}

func (b *Bot) AssignmentToggled(_ context.Context, car *models.Car, d *models.Driver, assigned bool) {
	b.notify(formatToggle(car, d, assigned))
}

// notify sends in the background; a slow Telegram API never holds up a request.
func (b *Bot) notify(text string) {
	if b.ChatID == 0 {
		return
	}
	go func() {
		done := make(chan error, 1)
		go func() { done <- b.send(b.ChatID, text) }()

		select {
		case err := <-done:
			if err != nil {
				b.Log.Warning("failed to notify admin chat", logger.Error(err))
			}
		case <-time.After(sendTimeout):
			b.Log.Warning("admin chat notification timed out")
		}
	}()
}

func formatStats(s models.Stats) string {
	return fmt.Sprintf("📊 Taxi service\n\nDrivers: %d\nCars: %d\nManufacturers: %d", s.Drivers, s.Cars, s.Manufacturers)
}

func formatRegistration(d *models.Driver) string {
	text := fmt.Sprintf("🆕 New driver: %s", d)
	if license := d.License(); license != "" {
		text += "\nLicense: " + license
	}
	if d.IsStaff {
		text += "\nStaff account"
	}
	return text
}

func formatToggle(car *models.Car, d *models.Driver, assigned bool) string {
	if assigned {
		return fmt.Sprintf("🚕 %s took car #%d %s", d.Username, car.ID, car.Model)
	}
	return fmt.Sprintf("🚕 %s left car #%d %s", d.Username, car.ID, car.Model)
}
