package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"maintenance-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool delivers assignment notifications to technicians in the
// background. Delivery is best-effort; a full queue drops the job.
type WorkerPool struct {
	size    int
	jobs    chan int64
	store   store.Store
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size*4),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case interventionID := <-wp.jobs:
			wp.notifyAssignment(ctx, interventionID)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// InterventionAssigned queues a notification job for the intervention's
// technician. Never blocks the caller.
func (wp *WorkerPool) InterventionAssigned(interventionID int64) {
	select {
	case wp.jobs <- interventionID:
	default:
		log.Printf("Notification queue full, dropping job for intervention %d", interventionID)
	}
}

// notifyAssignment pushes an assignment message to every subscription of
// the intervention's technician.
func (wp *WorkerPool) notifyAssignment(ctx context.Context, interventionID int64) {
	intervention, err := wp.store.InterventionByID(ctx, interventionID)
	if err != nil {
		log.Printf("Error fetching intervention %d: %v", interventionID, err)
		return
	}
	if intervention.TechnicianID == nil {
		// Unassigned between dispatch and delivery.
		return
	}

	subscriptions, err := wp.store.SubscriptionsByUser(ctx, *intervention.TechnicianID)
	if err != nil {
		log.Printf("Error fetching subscriptions for user %d: %v", *intervention.TechnicianID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	subject := intervention.Description
	if intervention.Machine != nil {
		subject = fmt.Sprintf("%s (%s)", intervention.Description, intervention.Machine.Name)
	}
	message := fmt.Sprintf("New intervention assigned: %s", subject)

	log.Printf("Sending %d notifications for intervention %d", len(subscriptions), interventionID)
	for _, sub := range subscriptions {
		wp.send(ctx, sub.Endpoint, sub.P256DH, sub.Auth, []byte(message))
	}
}

func (wp *WorkerPool) send(ctx context.Context, endpoint, p256dh, auth string, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: p256dh,
			Auth:   auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", endpoint)
		if err := wp.store.DeleteSubscription(ctx, endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", endpoint, err)
		}
	}
}
