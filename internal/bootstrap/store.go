package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/store"
	"github.com/builderstudio/briefs-backend/internal/store/pgstore"
	"github.com/builderstudio/briefs-backend/internal/store/redisstore"
)

type StoreOptions struct {
	URL       string
	Name      string
	ConnectTO time.Duration
}

// OpenStore picks a backend from the URL scheme, connects and pings it
// within ConnectTO. On failure the returned Gateway is a nil interface.
func OpenStore(ctx context.Context, opt StoreOptions) (store.Gateway, error) {
	if opt.URL == "" {
		return nil, apperr.Storage("open_store", errors.New("DATABASE_URL is not set"))
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}

	u, err := url.Parse(opt.URL)
	if err != nil {
		return nil, apperr.Storage("open_store", fmt.Errorf("parse DATABASE_URL: %w", err))
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	switch strings.ToLower(u.Scheme) {
	case "redis", "rediss":
		s, err := redisstore.Open(cctx, opt.URL, opt.Name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "postgresql":
		s, err := pgstore.Open(cctx, opt.URL, opt.Name)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, apperr.Storage("open_store", fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme))
	}
}
