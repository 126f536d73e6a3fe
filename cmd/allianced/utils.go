// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/api"
	"github.com/alliancehub/hub/builtin/incentives"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/builtin/lphub/emissions"
	"github.com/alliancehub/hub/builtin/stakingmod"
	"github.com/alliancehub/hub/lvldb"
	"github.com/alliancehub/hub/runtime"
)

func initLogger(ctx *cli.Context) {
	lvl := log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) &&
			os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))

	// package loggers are bound when created
	logger = log.New("pkg", "allianced")
	runtime.SetLogger(log.New("pkg", "runtime"))
	lphub.SetLogger(log.New("pkg", "lphub"))
	incentives.SetLogger(log.New("pkg", "incentives"))
	stakingmod.SetLogger(log.New("pkg", "stakingmod"))
	api.SetLogger(log.New("pkg", "api"))
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".allianced")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// handleExitSignal returns a context cancelled on the first interrupt.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func lvldbOptions(ctx *cli.Context) lvldb.Options {
	return lvldb.Options{
		CacheSize:              ctx.GlobalInt(cacheFlag.Name),
		OpenFilesCacheCapacity: 64,
	}
}

func openNodeFromFlags(ctx *cli.Context) (*Node, error) {
	return openNode(ctx.GlobalString(dataDirFlag.Name), lvldbOptions(ctx))
}

func requireAddress(ctx *cli.Context, flag cli.StringFlag) (alliance.Address, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return alliance.Address{}, errors.Errorf("missing --%v", flag.Name)
	}
	addr, err := alliance.ParseAddress(s)
	if err != nil {
		return alliance.Address{}, errors.Wrapf(err, "--%v", flag.Name)
	}
	return addr, nil
}

func requireAssetInfo(ctx *cli.Context, flag cli.StringFlag) (alliance.AssetInfo, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return alliance.AssetInfo{}, errors.Errorf("missing --%v", flag.Name)
	}
	info, err := alliance.ParseAssetInfo(s)
	if err != nil {
		return alliance.AssetInfo{}, errors.Wrapf(err, "--%v", flag.Name)
	}
	return info, nil
}

func requireAsset(ctx *cli.Context, flag cli.StringFlag) (alliance.Asset, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return alliance.Asset{}, errors.Errorf("missing --%v", flag.Name)
	}
	asset, err := alliance.ParseAsset(s)
	if err != nil {
		return alliance.Asset{}, errors.Wrapf(err, "--%v", flag.Name)
	}
	return asset, nil
}

// parseDeltas parses "asset=delta" pairs.
func parseDeltas(s string) ([]emissions.Delta, error) {
	var deltas []emissions.Delta
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		i := strings.LastIndexByte(pair, '=')
		if i <= 0 {
			return nil, errors.Errorf("invalid delta %q", pair)
		}
		info, err := alliance.ParseAssetInfo(pair[:i])
		if err != nil {
			return nil, err
		}
		d, err := math.LegacyNewDecFromStr(pair[i+1:])
		if err != nil {
			return nil, errors.Wrapf(err, "delta of %v", info)
		}
		deltas = append(deltas, emissions.Delta{Asset: info.Key(), Delta: d})
	}
	if len(deltas) == 0 {
		return nil, errors.New("no deltas")
	}
	return deltas, nil
}

func printResult(w io.Writer, res *runtime.Result) {
	for _, ev := range res.Events {
		attrs := make([]string, 0, len(ev.Attributes))
		for _, a := range ev.Attributes {
			attrs = append(attrs, a.Key+"="+a.Value)
		}
		fmt.Fprintf(w, "%-10s %s\n", ev.Type, strings.Join(attrs, " "))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
