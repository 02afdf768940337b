package tutor

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/llm"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// Gateway builds per-request prompts from live study state and opens the
// model stream. It only ever reads from the store.
type Gateway struct {
	store   *store.Store
	client  *llm.Client
	builder *Builder
}

// NewGateway creates a tutor Gateway.
func NewGateway(st *store.Store, client *llm.Client) *Gateway {
	return &Gateway{store: st, client: client, builder: NewBuilder()}
}

// Chat validates the request, gathers context, and starts the token
// stream. Tokens arrive on the first channel; a terminal error, if any, on
// the second. Cancelling ctx aborts the upstream call.
func (g *Gateway) Chat(ctx context.Context, message string, mode Mode) (<-chan string, <-chan error, error) {
	if err := mode.Validate(); err != nil {
		return nil, nil, err
	}
	if message == "" && (mode == ModeExplain || mode == ModeCorrect) {
		return nil, nil, errors.New("message is required for this mode")
	}

	sc, err := g.gatherContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	system := g.builder.BuildSystem(sc, mode, message)
	user := message
	if user == "" {
		user = "Let's continue studying."
	}

	chunks, errs := g.client.GenerateStream(ctx, system, user)
	return chunks, errs, nil
}

// gatherContext runs the three context reads concurrently and merges the
// results. Each read is independent; the group cancels the rest on the
// first failure.
func (g *Gateway) gatherContext(ctx context.Context) (StudyContext, error) {
	var sc StudyContext

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		focus, err := g.store.GetMeta(ctx, models.MetaKeyJLPTFocus)
		if err != nil {
			return err
		}
		sc.Focus = models.JLPTLevel(focus)
		return nil
	})
	eg.Go(func() error {
		recent, err := g.store.RecentReviewSurfaces(ctx, maxRecentItems)
		if err != nil {
			return err
		}
		sc.RecentItems = recent
		return nil
	})
	eg.Go(func() error {
		weak, err := g.store.WeakestCards(ctx, maxWeakCards)
		if err != nil {
			return err
		}
		sc.WeakCards = weak
		return nil
	})

	if err := eg.Wait(); err != nil {
		return StudyContext{}, err
	}
	return sc, nil
}
