package remote

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Watch opens one snapshot listener per watched collection. Any change to
// any of them invokes onChange with no payload differentiation: the
// caller is expected to refetch everything and replace its state
// wholesale. The returned stop function cancels all listeners; Watch is
// meant to be called once per store lifetime.
func (g *Gateway) Watch(ctx context.Context, onChange func()) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	for _, coll := range []string{bagsCollection, itemsCollection, layoutsCollection} {
		go g.watchCollection(ctx, coll, onChange)
	}
	return cancel, nil
}

func (g *Gateway) watchCollection(ctx context.Context, coll string, onChange func()) {
	snaps := g.client.Collection(coll).Snapshots(ctx)
	defer snaps.Stop()

	slog.Info("watching collection", "collection", coll)

	// The first snapshot mirrors the state just fetched at load time and
	// carries no change.
	first := true
	for {
		_, err := snaps.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
				slog.Info("stopped watching collection", "collection", coll)
				return
			}
			slog.Error("snapshot listener failed", "collection", coll, "error", err)
			return
		}
		if first {
			first = false
			continue
		}
		onChange()
	}
}
