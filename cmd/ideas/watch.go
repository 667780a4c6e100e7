package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ideafactory/ideas/internal/catalog"
	"github.com/ideafactory/ideas/internal/events"
	"github.com/ideafactory/ideas/internal/model"
)

const watchDebounce = 200 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:     "watch [search terms...]",
	Short:   "Watch the catalog for ideas matching filters",
	GroupID: "catalog",
	Long: `Print ideas matching the filters, then print new, changed and removed
ideas as the catalog changes. Changes arrive over NATS when a NATS URL is
configured; otherwise the catalog is polled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(cmd.Flags(), args)
		if err != nil {
			return err
		}
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		store := newStore(ideasClient, &events.NoopPublisher{})
		defer store.Close()
		store.SetFilters(criteria)

		w := &watcher{store: store, out: cmd.OutOrStdout(), seen: map[string]string{}}
		if err := w.refresh(ctx); err != nil {
			return err
		}
		if once {
			return nil
		}

		if url := natsURL(); url != "" {
			return w.watchNATS(ctx, url)
		}
		return w.watchPoll(ctx, interval)
	},
}

// watcher reloads the store and prints the difference to the last load.
type watcher struct {
	store *catalog.Store
	out   io.Writer
	seen  map[string]string // id -> fingerprint
}

func (w *watcher) watchNATS(ctx context.Context, url string) error {
	// A reconnect may have hidden events, so it forces a reload.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(url,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	return events.Coalesce(ctx, ch, reconnectCh, watchDebounce, w.refresh)
}

func (w *watcher) watchPoll(ctx context.Context, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := w.refresh(ctx); err != nil {
			return err
		}
	}
}

func (w *watcher) refresh(ctx context.Context) error {
	if err := w.store.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("loading catalog: %w", err)
	}
	changed, removed := diffItems(w.store.Filtered(), w.seen)
	if len(changed) == 0 && len(removed) == 0 {
		return nil
	}
	if jsonOutput {
		return printJSON(w.out, map[string]any{"changed": changed, "removed": removed})
	}
	if len(changed) > 0 {
		if err := printItemTable(w.out, changed, len(w.store.Items())); err != nil {
			return err
		}
	}
	if len(removed) > 0 {
		fmt.Fprintf(w.out, "removed: %s\n", strings.Join(removed, ", "))
	}
	return nil
}

// fingerprint covers the fields a watcher reports on. Scores are left out
// since placeholder scores change on every load.
func fingerprint(it *model.CatalogItem) string {
	return strings.Join([]string{
		it.Title, it.Description, it.Category, it.Subcategory,
		fmt.Sprint(it.Investment), string(it.Difficulty), string(it.IdeaType),
		strings.Join(it.Tags, "\x1f"), fmt.Sprint(it.IsFavorite),
	}, "\x1e")
}

// diffItems returns items that are new or changed since the last call and
// the IDs of items no longer present. It updates seen in place.
func diffItems(items []model.CatalogItem, seen map[string]string) ([]model.CatalogItem, []string) {
	var changed []model.CatalogItem
	present := make(map[string]bool, len(items))
	for i := range items {
		it := &items[i]
		present[it.ID] = true
		fp := fingerprint(it)
		if prev, ok := seen[it.ID]; !ok || prev != fp {
			changed = append(changed, *it)
		}
		seen[it.ID] = fp
	}
	var removed []string
	for id := range seen {
		if !present[id] {
			removed = append(removed, id)
			delete(seen, id)
		}
	}
	slices.Sort(removed)
	return changed, removed
}

func init() {
	criteriaFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("interval", 30*time.Second, "polling interval when NATS is not configured")
	watchCmd.Flags().Bool("once", false, "exit after the first load")
}
