// Package chat relays buyer messages between marketplaces and the ERP inbox.
// Only Shopee exposes a chat API today; storefronts on other platforms are
// silently skipped.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/domain/shared"
)

// dedupeTTL is how long a relayed message's seen-mark lives. Background polls
// overlap, so without the mark the same buyer message would be re-relayed on
// every poll.
const dedupeTTL = 24 * time.Hour

// UnreadThread is one conversation with its latest unread buyer messages.
type UnreadThread struct {
	// Conversation is the thread header
	Conversation integration.Conversation `json:"conversation"`
	// Messages are the buyer messages not yet relayed, oldest last
	Messages []integration.ChatMessage `json:"messages"`
}

// Service relays marketplace chat.
type Service struct {
	storefrontRepo integration.StorefrontRepository
	factory        integration.ClientFactory
	seen           integration.SyncStateStore
	logger         *zap.Logger
}

// NewService creates a new chat service
func NewService(
	storefrontRepo integration.StorefrontRepository,
	factory integration.ClientFactory,
	seen integration.SyncStateStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		storefrontRepo: storefrontRepo,
		factory:        factory,
		seen:           seen,
		logger:         logger,
	}
}

// ---------------------------------------------------------------------------
// Polling
// ---------------------------------------------------------------------------

// FetchUnreadMessages walks every active storefront with a chat API and
// returns the unread conversations with their buyer messages. The platform's
// unread flag is the only filter; a message stays in the result until the
// conversation is marked read. A storefront that fails is skipped; the fetch
// always returns what it could gather.
func (s *Service) FetchUnreadMessages(ctx context.Context) ([]UnreadThread, error) {
	return s.collectUnread(ctx, false)
}

// PollNewMessages is the background-poll entry point. It gathers the same
// unread threads but additionally places a seen-mark on every buyer message,
// returning only the messages no earlier poll has relayed. The marks never
// affect FetchUnreadMessages, so the inbox keeps showing a message until it
// is read on the platform.
func (s *Service) PollNewMessages(ctx context.Context) ([]UnreadThread, error) {
	threads, err := s.collectUnread(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range threads {
		s.logger.Info("New buyer messages relayed",
			zap.String("conversation_id", threads[i].Conversation.ID),
			zap.String("platform", threads[i].Conversation.Platform.String()),
			zap.Int("messages", len(threads[i].Messages)),
		)
	}
	return threads, nil
}

func (s *Service) collectUnread(ctx context.Context, markSeen bool) ([]UnreadThread, error) {
	storefronts, err := s.storefrontRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load storefronts: %w", err)
	}

	threads := make([]UnreadThread, 0)
	for i := range storefronts {
		storefront := &storefronts[i]

		client, err := s.factory.ChatClientFor(storefront)
		if errors.Is(err, integration.ErrCapabilityNotSupported) {
			continue
		}
		if err != nil {
			s.logger.Warn("Failed to build chat client",
				zap.Int64("storefront_id", storefront.ID), zap.Error(err))
			continue
		}

		conversations, err := client.ListConversations(ctx, 1, true)
		if err != nil {
			s.logger.Warn("Failed to list conversations",
				zap.Int64("storefront_id", storefront.ID), zap.Error(err))
			continue
		}

		for _, conv := range conversations {
			messages, err := client.GetMessages(ctx, conv.ID, 1)
			if err != nil {
				s.logger.Warn("Failed to fetch conversation messages",
					zap.String("conversation_id", conv.ID), zap.Error(err))
				continue
			}

			buyer := buyerMessages(messages)
			if markSeen {
				buyer = s.filterFresh(ctx, storefront, conv.ID, buyer)
			}
			if len(buyer) == 0 {
				continue
			}

			conv.Platform = storefront.Platform
			conv.StorefrontID = storefront.ID
			threads = append(threads, UnreadThread{
				Conversation: conv,
				Messages:     buyer,
			})
		}
	}
	return threads, nil
}

// buyerMessages drops seller-side messages; only the buyer's side is unread
// from the ERP's point of view.
func buyerMessages(messages []integration.ChatMessage) []integration.ChatMessage {
	buyer := make([]integration.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.FromBuyer {
			buyer = append(buyer, msg)
		}
	}
	return buyer
}

// filterFresh keeps buyer messages this process has not relayed before. The
// seen-mark is best effort: a mark failure lets the message through rather
// than dropping it.
func (s *Service) filterFresh(ctx context.Context, storefront *integration.Storefront, conversationID string, messages []integration.ChatMessage) []integration.ChatMessage {
	fresh := make([]integration.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		key := fmt.Sprintf("chat:%s:%s:%s", storefront.IntegrationKey(), conversationID, msg.ID)
		unseen, err := s.seen.AcquireLock(ctx, key, dedupeTTL)
		if err != nil {
			s.logger.Warn("Chat dedupe mark failed", zap.String("message_id", msg.ID), zap.Error(err))
			unseen = true
		}
		if unseen {
			fresh = append(fresh, msg)
		}
	}
	return fresh
}

// ---------------------------------------------------------------------------
// Replies
// ---------------------------------------------------------------------------

// SendReply sends a text reply into a conversation on the storefront's
// platform. Platforms without chat surface ErrCapabilityNotSupported.
func (s *Service) SendReply(ctx context.Context, storefrontID int64, conversationID, text string) (*integration.ChatMessage, error) {
	if conversationID == "" || text == "" {
		return nil, shared.ErrInvalidInput
	}

	client, err := s.chatClient(ctx, storefrontID)
	if err != nil {
		return nil, err
	}

	message, err := client.SendMessage(ctx, conversationID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to send reply: %w", err)
	}
	return message, nil
}

// MarkAsRead marks the conversation read on the platform.
func (s *Service) MarkAsRead(ctx context.Context, storefrontID int64, conversationID string) error {
	if conversationID == "" {
		return shared.ErrInvalidInput
	}

	client, err := s.chatClient(ctx, storefrontID)
	if err != nil {
		return err
	}

	if err := client.MarkRead(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}
	return nil
}

func (s *Service) chatClient(ctx context.Context, storefrontID int64) (integration.ChatClient, error) {
	storefront, err := s.storefrontRepo.FindByID(ctx, storefrontID)
	if err != nil {
		return nil, err
	}
	return s.factory.ChatClientFor(storefront)
}
