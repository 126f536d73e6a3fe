// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/api"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/metrics"
)

func serveAction(ctx *cli.Context) error {
	exitCtx := handleExitSignal()

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	node, err := openNodeFromFlags(ctx)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("closing main database...")
		node.Close()
	}()

	harvestFrom := node.Config().Hub.Controller
	if s := ctx.String(harvestFromFlag.Name); s != "" {
		if harvestFrom, err = alliance.ParseAddress(s); err != nil {
			return errors.Wrap(err, "--harvest-from")
		}
	}

	apiHandler := api.New(node, genesis.HubAddress, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   enableMetrics,
	})
	apiListener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", ctx.String(apiAddrFlag.Name))
	}
	logger.Info("API service started", "url", "http://"+apiListener.Addr().String())

	g, gctx := errgroup.WithContext(exitCtx)
	g.Go(func() error {
		return serveHTTP(gctx, apiListener, apiHandler)
	})

	if enableMetrics {
		metricsListener, err := net.Listen("tcp", ctx.String(metricsAddrFlag.Name))
		if err != nil {
			apiListener.Close()
			return errors.Wrapf(err, "listen metrics API addr [%v]", ctx.String(metricsAddrFlag.Name))
		}
		router := mux.NewRouter()
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		logger.Info("metrics server started", "url", "http://"+metricsListener.Addr().String()+"/metrics")
		g.Go(func() error {
			return serveHTTP(gctx, metricsListener, handlers.CompressHandler(router))
		})
	}

	if interval := ctx.Duration(harvestIntervalFlag.Name); interval > 0 {
		if interval < minHarvestInterval {
			interval = minHarvestInterval
		}
		logger.Info("periodic harvest enabled", "interval", interval, "from", harvestFrom)
		g.Go(func() error {
			harvestLoop(gctx, node, harvestFrom, interval)
			return nil
		})
	}

	return g.Wait()
}

func serveHTTP(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// harvestLoop opens a harvest round every interval. A failed round is
// logged and retried on the next tick.
func harvestLoop(ctx context.Context, node *Node, from alliance.Address, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := node.ExecuteHub(from, lphub.UpdateRewards{})
			if err != nil {
				logger.Warn("harvest failed", "err", err)
				continue
			}
			logger.Debug("harvest done", "height", node.Height(), "events", len(res.Events))
		}
	}
}
