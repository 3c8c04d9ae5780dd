package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/bistro/pkg/aggregate"
	"github.com/cuemby/bistro/pkg/api"
	"github.com/cuemby/bistro/pkg/config"
	"github.com/cuemby/bistro/pkg/dispatcher"
	"github.com/cuemby/bistro/pkg/eventlog"
	"github.com/cuemby/bistro/pkg/log"
	"github.com/cuemby/bistro/pkg/metrics"
	"github.com/cuemby/bistro/pkg/notify"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/cuemby/bistro/pkg/ordersaga"
	"github.com/cuemby/bistro/pkg/orderview"
	"github.com/cuemby/bistro/pkg/restaurant"
	"github.com/cuemby/bistro/pkg/restaurantview"
	"github.com/cuemby/bistro/pkg/saga"
	"github.com/cuemby/bistro/pkg/view"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the event log, views, saga dispatcher, and health/metrics endpoint",
	Long: `serve hosts the Restaurant and Order deciders against one embedded,
Raft-replicated event log, runs the restaurant_view and order_view
projections and the order_saga off that same log, and serves /health,
/ready, /healthz, and /metrics. Run "bistro register" once beforehand to
declare which events each decider may append.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("http-addr", ":8080", "Address for the health/metrics HTTP server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load(rootCmd)
	logger := log.WithComponent("server")

	store, err := eventlog.NewRaftStore(eventlog.Config{
		NodeID:   cfg.NodeID,
		BindAddr: cfg.BindAddr,
		DataDir:  cfg.DataDir,
	})
	if err != nil {
		return fmt.Errorf("start event log: %w", err)
	}
	defer store.Close()

	if err := store.CreateSubscription(eventlog.Subscription{ViewName: "view", PollingDelay: cfg.PollingDelay}); err != nil {
		return fmt.Errorf("create view subscription: %w", err)
	}
	if err := store.CreateSubscription(eventlog.Subscription{ViewName: "saga", PollingDelay: cfg.PollingDelay}); err != nil {
		return fmt.Errorf("create saga subscription: %w", err)
	}

	views, err := view.OpenBoltRepository(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open view repository: %w", err)
	}
	defer views.Close()

	wakeUp := notify.NewBroker()

	restaurantAgg := &aggregate.Aggregate[restaurant.Command, *restaurant.State, restaurant.Event]{
		Decider:     restaurant.Decider,
		Store:       store,
		DeciderName: restaurant.DeciderName,
		Codec:       aggregate.Codec[restaurant.Event]{Encode: restaurant.EncodeEvent, Decode: restaurant.DecodeEvent},
		Logger:      log.WithDecider(restaurant.DeciderName),
		Notifier:    wakeUp,
	}
	orderAgg := &aggregate.Aggregate[order.Command, *order.State, order.Event]{
		Decider:     order.Decider,
		Store:       store,
		DeciderName: order.DeciderName,
		Codec:       aggregate.Codec[order.Event]{Encode: order.EncodeEvent, Decode: order.DecodeEvent},
		Logger:      log.WithDecider(order.DeciderName),
		Notifier:    wakeUp,
	}

	restaurantViewRuntime := &view.Runtime[*restaurantview.Projection, restaurant.Event]{
		View:     restaurantview.View,
		Repo:     views,
		ViewName: restaurantview.Name,
		Codec:    restaurantProjectionCodec(),
		Logger:   log.WithComponent(restaurantview.Name),
	}
	orderViewRuntime := &view.Runtime[*orderview.Projection, order.Event]{
		View:     orderview.View,
		Repo:     views,
		ViewName: orderview.Name,
		Codec:    orderProjectionCodec(),
		Logger:   log.WithComponent(orderview.Name),
	}

	sagaManager := &saga.Manager[restaurant.Event, order.Command]{
		Saga:     ordersaga.Saga,
		SagaName: ordersaga.Name,
		Dispatch: func(cmd order.Command) error {
			_, err := orderAgg.Handle(cmd)
			return err
		},
		Logger: log.WithComponent(ordersaga.Name),
	}

	viewWake, cancelViewWake := wakeUp.Subscribe()
	defer cancelViewWake()
	sagaWake, cancelSagaWake := wakeUp.Subscribe()
	defer cancelSagaWake()

	viewDispatcher := dispatcher.New(store, "view", cfg.PollingDelay, map[string]dispatcher.Route{
		restaurant.DeciderName: func(evt eventlog.Event) error {
			domainEvt, err := restaurant.DecodeEvent(evt.Data)
			if err != nil {
				return err
			}
			return restaurantViewRuntime.Handle(domainEvt)
		},
		order.DeciderName: func(evt eventlog.Event) error {
			domainEvt, err := order.DecodeEvent(evt.Data)
			if err != nil {
				return err
			}
			return orderViewRuntime.Handle(domainEvt)
		},
	})

	sagaDispatcher := dispatcher.New(store, "saga", cfg.PollingDelay, map[string]dispatcher.Route{
		restaurant.DeciderName: func(evt eventlog.Event) error {
			domainEvt, err := restaurant.DecodeEvent(evt.Data)
			if err != nil {
				return err
			}
			return sagaManager.Handle(domainEvt)
		},
	})
	viewDispatcher.Wake = viewWake
	sagaDispatcher.Wake = sagaWake

	viewDispatcher.Start()
	defer viewDispatcher.Stop()
	sagaDispatcher.Start()
	defer sagaDispatcher.Stop()

	collector := metrics.NewCollector(store)
	collector.Start()
	defer collector.Stop()

	metrics.RegisterComponent("raft", true, "")
	metrics.RegisterComponent("eventlog", true, "")
	metrics.RegisterComponent("api", true, "")

	httpAddr, _ := cmd.Flags().GetString("http-addr")
	httpServer := &http.Server{Addr: httpAddr, Handler: api.NewHealthMux()}
	go func() {
		logger.Info().Str("addr", httpAddr).Msg("health/metrics server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("health server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func restaurantProjectionCodec() view.Codec[*restaurantview.Projection] {
	return view.Codec[*restaurantview.Projection]{
		Encode: func(p *restaurantview.Projection) ([]byte, error) { return json.Marshal(p) },
		Decode: func(data []byte) (*restaurantview.Projection, error) {
			var p restaurantview.Projection
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
			return &p, nil
		},
	}
}

func orderProjectionCodec() view.Codec[*orderview.Projection] {
	return view.Codec[*orderview.Projection]{
		Encode: func(p *orderview.Projection) ([]byte, error) { return json.Marshal(p) },
		Decode: func(data []byte) (*orderview.Projection, error) {
			var p orderview.Projection
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
			return &p, nil
		},
	}
}
