package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenFilterRefresher_Refresh(t *testing.T) {
	filter := NewBloomTokenFilter(1000, 0.001)
	filter.Add("gone")
	links := &mockShortLinkRepository{
		listTokensFn: func(ctx context.Context) ([]string, error) {
			return []string{"aB3x", "Zz99"}, nil
		},
	}
	refresher := NewTokenFilterRefresher(nil, links, filter, time.Hour)

	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !filter.Test("aB3x") || !filter.Test("Zz99") {
		t.Fatal("expected issued tokens in the filter")
	}
	if filter.Test("gone") {
		t.Fatal("expected the filter to be rebuilt from scratch")
	}
}

func TestTokenFilterRefresher_StartStop(t *testing.T) {
	refreshed := make(chan struct{}, 1)
	links := &mockShortLinkRepository{
		listTokensFn: func(ctx context.Context) ([]string, error) {
			select {
			case refreshed <- struct{}{}:
			default:
			}
			return nil, errors.New("store unavailable")
		},
	}
	refresher := NewTokenFilterRefresher(nil, links, NewBloomTokenFilter(10, 0.01), 10*time.Millisecond)
	refresher.Start()

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("expected a periodic refresh")
	}
	refresher.Stop()
}

func TestDecodeVisit(t *testing.T) {
	visit, err := decodeVisit([]byte(`{"id":"v1","token":"aB3x","recipe_id":42,"ip":"1.2.3.4","user_agent":"ua","visited_at":"2024-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("decodeVisit returned error: %v", err)
	}
	if visit.RecipeID != 42 || visit.Token != "aB3x" {
		t.Fatalf("unexpected visit %+v", visit)
	}

	if _, err := decodeVisit([]byte(`{"token":"aB3x"}`)); err == nil {
		t.Fatal("expected incomplete visit to be rejected")
	}
	if _, err := decodeVisit([]byte(`not json`)); err == nil {
		t.Fatal("expected malformed payload to be rejected")
	}
}
