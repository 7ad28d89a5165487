package digest

import (
	"context"
	"encoding/json"

	"ainewsletter/internal/logger"
	"ainewsletter/internal/store"
)

// PreferenceResolver reads subscriber profiles. The users collection is
// owned by an external profile service; this is a pass-through read.
type PreferenceResolver struct {
	store store.Store
}

func NewPreferenceResolver(s store.Store) *PreferenceResolver {
	return &PreferenceResolver{store: s}
}

// ResolveAll maps every subscriber to their chosen topics. Subscribers
// with an empty or missing topic set are excluded.
func (r *PreferenceResolver) ResolveAll(ctx context.Context) (map[string][]string, error) {
	docs, err := r.store.List(ctx, CollectionUsers)
	if err != nil {
		return nil, err
	}

	prefs := make(map[string][]string)
	for id, raw := range docs {
		var u User
		if err := json.Unmarshal(raw, &u); err != nil {
			logger.Warn("skipping unreadable user profile", "user", id, "error", err)
			continue
		}
		if len(u.Topics) == 0 {
			continue
		}
		prefs[id] = u.Topics
	}

	logger.Info("resolved subscriber preferences", "subscribers", len(prefs))
	return prefs, nil
}

// GetUser reads a single subscriber profile.
func (r *PreferenceResolver) GetUser(ctx context.Context, userID string) (*User, error) {
	var u User
	if err := r.store.Get(ctx, CollectionUsers, userID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
