// cmd/judy/main.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// judy is the headless exercise runner: it loads or generates a
// scenario, drives the simulation kernel in real time (or faster, via
// the sim rate), reports kernel events on stdout, and optionally saves
// the end state back out as a scenario file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WarBuck-Dev/Project-Judy-sub002/log"
	"github.com/WarBuck-Dev/Project-Judy-sub002/scenario"
	"github.com/WarBuck-Dev/Project-Judy-sub002/sim"
	"github.com/WarBuck-Dev/Project-Judy-sub002/util"

	"github.com/goforj/godump"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const lastRunCacheKey = "judy/lastrun.msgpack"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "judy: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logDir", "")
	viper.SetDefault("scenario", "")
	viper.SetDefault("lastrun", false)
	viper.SetDefault("save", "")
	viper.SetDefault("seed", int64(1))
	viper.SetDefault("raiders", 4)
	viper.SetDefault("duration", "5m")
	viper.SetDefault("simRate", float64(1))
	viper.SetDefault("dump", false)
	viper.SetDefault("digest", false)

	viper.SetConfigName("judy")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/judy")
	viper.SetEnvPrefix("JUDY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file just means defaults plus environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func run() error {
	if err := initConfig(); err != nil {
		return err
	}

	lg := log.New(viper.GetString("logLevel"), viper.GetString("logDir"))

	var sc *scenario.Scenario
	switch {
	case viper.GetString("scenario") != "":
		var err error
		if sc, err = scenario.Load(viper.GetString("scenario"), lg); err != nil {
			return err
		}
	case viper.GetBool("lastrun"):
		// Repeat the previous run's exercise from the disk cache.
		sc = &scenario.Scenario{}
		cached, err := util.CacheRetrieveObject(lastRunCacheKey, sc)
		if err != nil {
			return fmt.Errorf("no cached run to repeat: %w", err)
		}
		lg.Infof("repeating exercise cached %s", cached.Format(time.RFC822))
	default:
		sc = scenario.Generate(viper.GetInt64("seed"), viper.GetInt("raiders"))
		lg.Infof("generated exercise: seed %d, %d raiders",
			viper.GetInt64("seed"), viper.GetInt("raiders"))
	}

	// Remember this run's setup so a bare "judy" can repeat it.
	if err := util.CacheStoreObject(lastRunCacheKey, sc); err != nil {
		lg.Warnf("unable to cache run setup: %v", err)
	}

	s, err := sim.NewSim(sc.SimConfiguration(), lg)
	if err != nil {
		return err
	}
	defer s.Destroy()

	if rate := float32(viper.GetFloat64("simRate")); rate != 1 {
		if err := s.SetSimRate(rate); err != nil {
			return err
		}
	}

	duration, err := time.ParseDuration(viper.GetString("duration"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	sub := s.Subscribe()
	defer sub.Unsubscribe()

	var eg errgroup.Group
	deadline := time.After(duration)

	eg.Go(func() error {
		defer cancelRun()

		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return nil
			case <-deadline:
				return nil
			case <-ticker.C:
				s.Update()
			}
		}
	})

	eg.Go(func() error {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()

		report := func() {
			for _, e := range sub.Get() {
				fmt.Printf("[%8.1f] %s\n", s.MissionTime(), e.String())
			}
		}
		for {
			select {
			case <-runCtx.Done():
				report()
				return nil
			case <-ticker.C:
				report()
			}
		}
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	update := s.GetStateUpdate()
	fmt.Printf("mission time %.1f s, %d assets, %d weapons in flight, %d contacts\n",
		update.MissionTime, len(update.State.Assets), len(update.State.Weapons),
		len(update.State.Contacts))

	if viper.GetBool("dump") {
		godump.Dump(update)
	}
	if viper.GetBool("digest") {
		digest, err := update.State.Digest()
		if err != nil {
			return err
		}
		fmt.Printf("state digest %s\n", digest)
	}

	if path := viper.GetString("save"); path != "" {
		if err := scenario.Save(path, scenario.FromSim(s), lg); err != nil {
			return err
		}
	}
	return nil
}
