package tests

import (
	"context"
	"sync"
	"testing"

	"medride/internal/domain"
	"medride/internal/service"
)

func TestNotify_AssignsMonotonicSeq(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	stream := NewMockNotificationStream()
	publisher := NewMockPublisher()
	svc := service.NewNotificationService(notificationRepo, stream, publisher)

	for i := 0; i < 3; i++ {
		if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}
	if err := svc.Notify(ctx, "user-2", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	got := notificationRepo.NotificationsFor("user-1")
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(got))
	}
	for i, n := range got {
		if n.Seq != int64(i+1) {
			t.Errorf("expected seq %d, got %d", i+1, n.Seq)
		}
	}

	// Seq is per user, not global.
	other := notificationRepo.NotificationsFor("user-2")
	if len(other) != 1 || other[0].Seq != 1 {
		t.Errorf("expected user-2 to start at seq 1, got %v", other)
	}
}

func TestNotify_ConcurrentSeqsAreUnique(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	svc := service.NewNotificationService(notificationRepo, NewMockNotificationStream(), NewMockPublisher())

	// Two drivers bidding on the same ride at once both notify the rider;
	// the seqs they get must never collide or a polling cursor taken from
	// one of them would skip the other.
	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Notify(ctx, "rider-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
				t.Errorf("notify failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got := notificationRepo.NotificationsFor("rider-1")
	if len(got) != workers {
		t.Fatalf("expected %d notifications, got %d", workers, len(got))
	}
	seen := make(map[int64]bool)
	for _, n := range got {
		if seen[n.Seq] {
			t.Fatalf("seq %d handed out twice", n.Seq)
		}
		seen[n.Seq] = true
		if n.Seq < 1 || n.Seq > workers {
			t.Errorf("seq %d outside 1..%d", n.Seq, workers)
		}
	}
}

func TestNotify_MirrorsToStreamAndPushes(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	stream := NewMockNotificationStream()
	publisher := NewMockPublisher()
	svc := service.NewNotificationService(notificationRepo, stream, publisher)

	if err := svc.Notify(ctx, "user-1", domain.NotificationBidAccepted, "Bid Accepted", "body",
		map[string]any{"ride_id": "ride-1"}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if stream.CountFor("user-1") != 1 {
		t.Error("expected entry mirrored into the hot window")
	}

	frames := publisher.FramesFor("user-1")
	if len(frames) != 1 {
		t.Fatalf("expected 1 pushed frame, got %d", len(frames))
	}
	if frames[0].Type != string(domain.NotificationBidAccepted) {
		t.Errorf("expected BID_ACCEPTED frame, got %s", frames[0].Type)
	}
	if frames[0].Seq != 1 {
		t.Errorf("expected frame seq 1, got %d", frames[0].Seq)
	}
}

func TestNotify_StreamFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	stream := NewMockNotificationStream()
	stream.AppendError = ErrMockTimeout
	svc := service.NewNotificationService(notificationRepo, stream, NewMockPublisher())

	// The durable write succeeded, so the delivery succeeds.
	if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
		t.Fatalf("notify should tolerate stream failure, got %v", err)
	}
	if notificationRepo.CountFor("user-1") != 1 {
		t.Error("expected notification persisted despite stream failure")
	}
}

func TestListAfter_ServesFromStreamWindow(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	stream := NewMockNotificationStream()
	svc := service.NewNotificationService(notificationRepo, stream, NewMockPublisher())

	for i := 0; i < 5; i++ {
		if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}

	got, err := svc.ListAfter(ctx, "user-1", 2, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications past the cursor, got %d", len(got))
	}
	if got[0].Seq != 3 {
		t.Errorf("expected first seq 3, got %d", got[0].Seq)
	}
}

func TestListAfter_FallsBackToDurableStore(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	stream := NewMockNotificationStream()
	svc := service.NewNotificationService(notificationRepo, stream, NewMockPublisher())

	for i := 0; i < 3; i++ {
		if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}

	// The hot window no longer covers the cursor; the read comes from Postgres.
	stream.ForceMiss = true

	got, err := svc.ListAfter(ctx, "user-1", 0, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications from the durable store, got %d", len(got))
	}
}

func TestListAfter_RecreatedWindowFallsBack(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	stream := NewMockNotificationStream()
	svc := service.NewNotificationService(notificationRepo, stream, NewMockPublisher())

	for i := 0; i < 3; i++ {
		if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}

	// The window key expires, then a later notification recreates it
	// holding only seq 4. Seqs 2 and 3 now live solely in the durable
	// store, so a cursor at 1 must be answered from there.
	stream.Expire("user-1")
	if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	got, err := svc.ListAfter(ctx, "user-1", 1, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected seqs 2,3,4 from the durable store, got %d entries", len(got))
	}
	for i, n := range got {
		if n.Seq != int64(i+2) {
			t.Errorf("expected seq %d at position %d, got %d", i+2, i, n.Seq)
		}
	}
}

func TestListAfter_AppliesLimit(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	svc := service.NewNotificationService(notificationRepo, NewMockNotificationStream(), NewMockPublisher())

	for i := 0; i < 5; i++ {
		if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}

	got, err := svc.ListAfter(ctx, "user-1", 0, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit applied, got %d", len(got))
	}
}

func TestMarkRead_UpToCursor(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	svc := service.NewNotificationService(notificationRepo, NewMockNotificationStream(), NewMockPublisher())

	for i := 0; i < 3; i++ {
		if err := svc.Notify(ctx, "user-1", domain.NotificationBidPlaced, "New Bid", "body", nil); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}

	if err := svc.MarkRead(ctx, "user-1", 2); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	got := notificationRepo.NotificationsFor("user-1")
	for _, n := range got {
		read := !n.ReadAt.IsZero()
		if n.Seq <= 2 && !read {
			t.Errorf("expected seq %d read", n.Seq)
		}
		if n.Seq > 2 && read {
			t.Errorf("expected seq %d unread", n.Seq)
		}
	}
}
