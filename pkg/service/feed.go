package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/config"
	"github.com/touchgrass/cli/pkg/feed"
	"github.com/touchgrass/cli/pkg/interactions"
	"github.com/touchgrass/cli/pkg/logger"
	"github.com/touchgrass/cli/pkg/notify"
	"github.com/touchgrass/cli/pkg/output"
	"github.com/touchgrass/cli/pkg/realtime"
)

// FeedService renders the community feed and keeps it fresh
type FeedService struct {
	reconciler *feed.Reconciler
	likes      *interactions.Likes
	comments   *interactions.Comments
}

// NewFeedService wires the reconciler to the interaction guards so refreshes
// triggered by this client's own pending mutations are suppressed
func NewFeedService(sort api.FeedSort, ftype api.FeedType, selfID string, following []string) *FeedService {
	likes := interactions.NewLikes(nil, notify.Console{})
	comments := interactions.NewComments(nil, notify.Console{})

	pending := func(id string) bool {
		return likes.Guard().Pending(id) || comments.Guard().Pending(id)
	}

	reconciler := feed.NewReconciler(nil, feed.Options{
		Sort:      sort,
		Type:      ftype,
		SelfID:    selfID,
		Following: following,
		PageSize:  config.GetInt("feed.page_size"),
		TopWindow: time.Duration(config.GetInt("feed.top_window_days")) * 24 * time.Hour,
		Pending:   pending,
	})

	return &FeedService{
		reconciler: reconciler,
		likes:      likes,
		comments:   comments,
	}
}

// Reconciler exposes the underlying reconciler
func (s *FeedService) Reconciler() *feed.Reconciler {
	return s.reconciler
}

// Show fetches and renders the feed once
func (s *FeedService) Show(ctx context.Context) error {
	if err := s.reconciler.Refresh(ctx); err != nil {
		output.PrintError("Failed to load feed: %v", err)
		return err
	}

	posts, _ := s.reconciler.Snapshot()
	s.likes.SeedAll(posts)
	s.comments.SeedAll(posts)

	return s.render(posts)
}

// Watch renders the feed and keeps it updated from the realtime channel
// until interrupted
func (s *FeedService) Watch(ctx context.Context, token string) error {
	if err := s.Show(ctx); err != nil {
		return err
	}

	rt := realtime.NewClient(realtimeConfig())
	unsubscribe := rt.OnChange(func(ev feed.ChangeEvent) {
		if s.reconciler.HandleChange(ctx, ev) {
			posts, _ := s.reconciler.Snapshot()
			s.likes.SeedAll(posts)
			s.comments.SeedAll(posts)
			if err := s.render(posts); err != nil {
				logger.Warn("Failed to render feed update", "error", err)
			}
		}
	})
	defer unsubscribe()

	if err := rt.Connect(token); err != nil {
		output.PrintError("Realtime connection failed: %v", err)
		return err
	}
	defer rt.Disconnect()

	output.PrintInfo("Watching feed, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case <-sigCh:
	}
	return nil
}

func (s *FeedService) render(posts []api.Post) error {
	if len(posts) == 0 {
		output.PrintInfo("Feed is empty. Go touch some grass and post about it!")
		return nil
	}

	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		likeCount := p.LikeCount
		if st, ok := s.likes.State(p.ID); ok {
			likeCount = st.Count
		}
		commentCount := p.CommentCount
		if n, ok := s.comments.Count(p.ID); ok {
			commentCount = n
		}

		rows = append(rows, []string{
			p.ID,
			p.AuthorUsername,
			previewBody(p),
			fmt.Sprintf("%d", likeCount),
			fmt.Sprintf("%d", commentCount),
			p.CreatedAt.Format("Jan 2 15:04"),
		})
	}

	return output.PrintList("Feed", rows, []string{"ID", "Author", "Body", "Likes", "Comments", "Posted"})
}

func previewBody(p api.Post) string {
	body := strings.TrimSpace(p.Body)
	if body == "" {
		switch p.MediaType {
		case api.MediaTypeImage:
			return "[image]"
		case api.MediaTypeVideo:
			return "[video]"
		}
	}
	if len(body) > 60 {
		return body[:60] + "..."
	}
	return body
}

func realtimeConfig() realtime.Config {
	cfg := realtime.DefaultConfig()
	if host := config.GetString("realtime.host"); host != "" {
		cfg.Host = host
	}
	if port := config.GetInt("realtime.port"); port > 0 {
		cfg.Port = port
	}
	if hb := config.GetInt("realtime.heartbeat_interval_ms"); hb > 0 {
		cfg.HeartbeatIntervalMs = hb
	}
	if base := config.GetInt("realtime.reconnect_base_delay_ms"); base > 0 {
		cfg.ReconnectBaseDelayMs = base
	}
	if max := config.GetInt("realtime.reconnect_max_delay_ms"); max > 0 {
		cfg.ReconnectMaxDelayMs = max
	}
	cfg.UseTLS = config.GetBool("realtime.use_tls")
	return cfg
}

// ParseSort validates a --sort flag value
func ParseSort(s string) (api.FeedSort, error) {
	switch api.FeedSort(s) {
	case api.SortNewest, api.SortTop, api.SortFollowing:
		return api.FeedSort(s), nil
	default:
		return "", fmt.Errorf("invalid sort %q (newest, top, following)", s)
	}
}

// ParseType validates a --type flag value
func ParseType(s string) (api.FeedType, error) {
	switch api.FeedType(s) {
	case api.TypeAll, api.TypeImages, api.TypeVideos, api.TypeText:
		return api.FeedType(s), nil
	default:
		return "", fmt.Errorf("invalid type %q (all, images, videos, text)", s)
	}
}
