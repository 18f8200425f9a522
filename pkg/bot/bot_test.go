package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage/memory"
)

type sent struct {
	chatID int64
	text   string
}

func newTestBot(t *testing.T, chatID int64) (*Bot, chan sent) {
	t.Helper()
	tb, err := tele.NewBot(tele.Settings{Token: "test-token", Offline: true})
	require.NoError(t, err)

	b := newBot(tb, chatID, memory.New(), logger.NewNop())
	out := make(chan sent, 4)
	b.send = func(chatID int64, text string) error {
		out <- sent{chatID, text}
		return nil
	}
	return b, out
}

func TestNewWithoutToken(t *testing.T) {
	_, err := New(&config.Config{}, memory.New(), logger.NewNop())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestNotificationsReachAdminChat(t *testing.T) {
	b, out := newTestBot(t, 42)
	license := "ABC12345"
	d := &models.Driver{ID: 3, Username: "john", FirstName: "John", LastName: "Smith", LicenseNumber: &license}

	b.DriverRegistered(context.Background(), d)

	select {
	case msg := <-out:
		assert.EqualValues(t, 42, msg.chatID)
		assert.Equal(t, "🆕 New driver: john (John Smith)\nLicense: ABC12345", msg.text)
	case <-time.After(time.Second):
		t.Fatal("no notification sent")
	}

	b.AssignmentToggled(context.Background(), &models.Car{ID: 7, Model: "Camry"}, d, false)
	select {
	case msg := <-out:
		assert.Equal(t, "🚕 john left car #7 Camry", msg.text)
	case <-time.After(time.Second):
		t.Fatal("no notification sent")
	}
}

func TestNotifyWithoutChatIsSilent(t *testing.T) {
	b, out := newTestBot(t, 0)
	b.AssignmentToggled(context.Background(), &models.Car{ID: 1, Model: "A4"}, &models.Driver{Username: "x"}, true)

	select {
	case <-out:
		t.Fatal("unexpected notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFormatStats(t *testing.T) {
	assert.Equal(t,
		"📊 Taxi service\n\nDrivers: 2\nCars: 5\nManufacturers: 1",
		formatStats(models.Stats{Drivers: 2, Cars: 5, Manufacturers: 1}))
	assert.Equal(t, "🚕 ann took car #2 Rio", formatToggle(&models.Car{ID: 2, Model: "Rio"}, &models.Driver{Username: "ann"}, true))
	assert.Equal(t, "🆕 New driver: root ( )\nStaff account", formatRegistration(&models.Driver{Username: "root", IsStaff: true}))
}
