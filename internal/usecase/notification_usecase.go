package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hirelink/internal/domain/notification"
	"hirelink/internal/infrastructure/cache"

	"github.com/google/uuid"
)

// unreadLimit caps the unread pull API.
const unreadLimit = 20

// UnreadCache is the slice of the redis cache the notification usecase
// needs; a nil implementation means no caching.
type UnreadCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type NotificationUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, ntype, content, link string) (NotificationItem, error)
	GetUnread(ctx context.Context, userID uuid.UUID) ([]NotificationItem, error)
	MarkAsRead(ctx context.Context, id int64, userID uuid.UUID) (bool, error)

	NotifyNewMessage(ctx context.Context, receiverID uuid.UUID, senderName string, conversationID uuid.UUID)
	NotifyApplicationStatus(ctx context.Context, applicantID uuid.UUID, jobTitle, status string) error
	NotifyJobPosted(ctx context.Context, companyID uuid.UUID, companyName string, jobID uuid.UUID, jobTitle string) (int, error)
}

type Notification struct {
	repo      notification.Repository
	followers notification.FollowerRepository
	cache     UnreadCache
	logger    *log.Logger
}

func NewNotificationUsecase(
	repo notification.Repository,
	followers notification.FollowerRepository,
	unreadCache UnreadCache,
	logger *log.Logger,
) *Notification {
	return &Notification{
		repo:      repo,
		followers: followers,
		cache:     unreadCache,
		logger:    logger,
	}
}

func (u *Notification) Create(ctx context.Context, userID uuid.UUID, ntype, content, link string) (NotificationItem, error) {
	ntype = strings.TrimSpace(ntype)
	content = strings.TrimSpace(content)
	if userID == uuid.Nil || ntype == "" || content == "" {
		return NotificationItem{}, ErrInvalidInput
	}

	created, err := u.repo.Create(ctx, notification.Notification{
		UserID:       userID,
		Type:         ntype,
		Content:      content,
		LinkToAction: link,
	})
	if err != nil {
		return NotificationItem{}, ErrInternal
	}

	u.invalidate(ctx, userID)
	return toNotificationItem(created), nil
}

func (u *Notification) GetUnread(ctx context.Context, userID uuid.UUID) ([]NotificationItem, error) {
	key := cache.UnreadNotificationsKey(userID)

	if u.cache != nil {
		var cached []NotificationItem
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	items, err := u.repo.ListUnread(ctx, userID, unreadLimit)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]NotificationItem, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationItem(n))
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, out, cache.DefaultUnreadTTL)
	}
	return out, nil
}

func (u *Notification) MarkAsRead(ctx context.Context, id int64, userID uuid.UUID) (bool, error) {
	ok, err := u.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return false, ErrInternal
	}
	if ok {
		u.invalidate(ctx, userID)
	}
	return ok, nil
}

// NotifyNewMessage is a side effect of an already-committed message write;
// a failure here is logged and never surfaces to the sender.
func (u *Notification) NotifyNewMessage(ctx context.Context, receiverID uuid.UUID, senderName string, conversationID uuid.UUID) {
	content := fmt.Sprintf("New message from %s", senderName)
	link := "/conversations/" + conversationID.String()

	if _, err := u.Create(ctx, receiverID, notification.TypeNewMessage, content, link); err != nil {
		if u.logger != nil {
			u.logger.Printf("notification write failed | type=%s user=%s error=%v", notification.TypeNewMessage, receiverID, err)
		}
	}
}

func (u *Notification) NotifyApplicationStatus(ctx context.Context, applicantID uuid.UUID, jobTitle, status string) error {
	content := fmt.Sprintf("Your application for %q is now %s", jobTitle, status)
	_, err := u.Create(ctx, applicantID, notification.TypeApplicationStatusChange, content, "/applications")
	return err
}

// NotifyJobPosted fans one notification out to every follower of the
// company. Each write is independent: a failed follower is logged and
// skipped, never aborting the batch. Returns how many writes succeeded.
func (u *Notification) NotifyJobPosted(ctx context.Context, companyID uuid.UUID, companyName string, jobID uuid.UUID, jobTitle string) (int, error) {
	followerIDs, err := u.followers.ListFollowerIDs(ctx, companyID)
	if err != nil {
		return 0, ErrInternal
	}

	content := fmt.Sprintf("%s posted a new job: %s", companyName, jobTitle)
	link := "/jobs/" + jobID.String()

	created := 0
	for _, followerID := range followerIDs {
		if _, err := u.Create(ctx, followerID, notification.TypeNewJobFromFollowed, content, link); err != nil {
			if u.logger != nil {
				u.logger.Printf("notification fan-out item failed | company=%s follower=%s error=%v", companyID, followerID, err)
			}
			continue
		}
		created++
	}

	if u.logger != nil {
		u.logger.Printf("notification fan-out | company=%s followers=%d created=%d", companyID, len(followerIDs), created)
	}
	return created, nil
}

func (u *Notification) invalidate(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	_ = u.cache.Delete(ctx, cache.UnreadNotificationsKey(userID))
}

func toNotificationItem(n notification.Notification) NotificationItem {
	return NotificationItem{
		ID:           n.ID,
		Type:         n.Type,
		Content:      n.Content,
		LinkToAction: n.LinkToAction,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}
