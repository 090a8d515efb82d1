// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/pdiddy/refcard-panel/internal/history"
	"github.com/pdiddy/refcard-panel/internal/panel"
	"github.com/pdiddy/refcard-panel/internal/results"
	"github.com/pdiddy/refcard-panel/internal/upload"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

// newPanel registers a panel for game against the configured server. The
// returned cleanup closes the panel and the history store, if any.
func newPanel(c types.Config, game string, view panel.View, picker panel.Picker) (*panel.Panel, func(), error) {
	if _, ok := c.Game(game); !ok {
		return nil, nil, fmt.Errorf("unknown game %q (see refcard-panel games)", game)
	}
	url, err := c.Endpoint(game).URL(c.Server)
	if err != nil {
		return nil, nil, err
	}

	opts := panel.Options{
		Game:     game,
		URL:      url,
		View:     view,
		Picker:   picker,
		Uploader: upload.NewClient(nil, c.HTTP),
		Renderer: results.NewRenderer(c.Panel.Trust),
		Logger:   logger,
	}

	var store *history.Store
	if c.History.Enabled {
		store, err = history.Open(c.History.Dir)
		if err != nil {
			return nil, nil, err
		}
		opts.Recorder = store
	}

	p, err := panel.New(opts)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		p.Close()
		if r := p.Last(); r != nil {
			<-r.Done()
		}
		if store != nil {
			store.Close()
		}
	}
	return p, cleanup, nil
}
