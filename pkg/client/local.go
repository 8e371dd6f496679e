package client

import (
	"context"

	"github.com/bastiangx/wordscape/pkg/search"
	"github.com/bastiangx/wordscape/pkg/widget"
)

// Local answers widget searches with an in-process engine.
type Local struct {
	engine *search.Engine
}

var _ widget.Searcher = (*Local)(nil)

func NewLocal(engine *search.Engine) *Local {
	return &Local{engine: engine}
}

func (l *Local) Search(ctx context.Context, q widget.Query) ([]string, error) {
	res, err := l.engine.Find(ctx, q.Letters, q.Pattern)
	if err != nil {
		return nil, err
	}
	return res.Words, nil
}
