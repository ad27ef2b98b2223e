package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"maintenance-backend/internal/db"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

// mockSender is a fake Sender recording every delivery.
type mockSender struct {
	mu       sync.Mutex
	statuses map[string]int // endpoint -> status code to answer with
	sent     []string       // endpoints in delivery order
	payloads []string
	done     chan struct{}
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	m.sent = append(m.sent, sub.Endpoint)
	m.payloads = append(m.payloads, string(payload))
	status, ok := m.statuses[sub.Endpoint]
	m.mu.Unlock()
	if !ok {
		status = http.StatusCreated
	}
	if m.done != nil {
		m.done <- struct{}{}
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}, nil
}

func newTestStore(t *testing.T) store.Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB)
}

func TestWorkerPool_NotifiesEverySubscription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	technician := model.User{Name: "Sam", Email: "sam@example.com", Password: "x", Role: model.RoleTechnician}
	require.NoError(t, s.CreateUser(ctx, &technician))
	machine := model.Machine{Name: "press", Status: model.MachineActive}
	require.NoError(t, s.CreateMachine(ctx, &machine))

	intervention := model.Intervention{
		Description:  "replace belt",
		Priority:     model.PriorityHigh,
		Status:       model.InterventionPending,
		MachineID:    &machine.ID,
		TechnicianID: &technician.ID,
	}
	require.NoError(t, s.CreateIntervention(ctx, &intervention))

	for i := 1; i <= 2; i++ {
		require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
			Endpoint: fmt.Sprintf("https://push.example/%d", i),
			P256DH:   "key", Auth: "secret", UserID: technician.ID,
		}))
	}

	sender := &mockSender{done: make(chan struct{}, 4)}
	wp := NewWorkerPool(1, s, &webpush.Options{})
	wp.sender = sender

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(runCtx)

	wp.InterventionAssigned(intervention.ID)

	for i := 0; i < 2; i++ {
		select {
		case <-sender.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notifications")
		}
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.ElementsMatch(t, []string{"https://push.example/1", "https://push.example/2"}, sender.sent)
	for _, payload := range sender.payloads {
		assert.Contains(t, payload, "replace belt")
		assert.Contains(t, payload, "press")
	}
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	technician := model.User{Name: "Sam", Email: "sam@example.com", Password: "x", Role: model.RoleTechnician}
	require.NoError(t, s.CreateUser(ctx, &technician))
	intervention := model.Intervention{
		Description:  "inspect",
		Priority:     model.PriorityLow,
		Status:       model.InterventionPending,
		TechnicianID: &technician.ID,
	}
	require.NoError(t, s.CreateIntervention(ctx, &intervention))
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example/stale", P256DH: "key", Auth: "secret", UserID: technician.ID,
	}))

	sender := &mockSender{
		statuses: map[string]int{"https://push.example/stale": http.StatusGone},
		done:     make(chan struct{}, 1),
	}
	wp := NewWorkerPool(1, s, &webpush.Options{})
	wp.sender = sender

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(runCtx)

	wp.InterventionAssigned(intervention.ID)

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}

	// Deletion happens after the send; poll briefly.
	assert.Eventually(t, func() bool {
		subs, err := s.SubscriptionsByUser(ctx, technician.ID)
		return err == nil && len(subs) == 0
	}, 2*time.Second, 20*time.Millisecond, "expired subscription should be deleted")
}

func TestWorkerPool_SkipsUnassignedIntervention(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	intervention := model.Intervention{
		Description: "orphan",
		Priority:    model.PriorityLow,
		Status:      model.InterventionPending,
	}
	require.NoError(t, s.CreateIntervention(ctx, &intervention))

	sender := &mockSender{}
	wp := NewWorkerPool(1, s, &webpush.Options{})
	wp.sender = sender

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(runCtx)

	wp.InterventionAssigned(intervention.ID)
	time.Sleep(100 * time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Empty(t, sender.sent)
}
