// ftsconfigd gRPC Server
// Serves administrative access to the full-text search config file
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"

	"github.com/nainya/ftsconfig/internal/logger"
	"github.com/nainya/ftsconfig/internal/metrics"
	"github.com/nainya/ftsconfig/internal/server"
	"github.com/nainya/ftsconfig/pkg/config"
)

var (
	port        = flag.Int("port", 50052, "The gRPC server port")
	metricsPort = flag.Int("metrics-port", 9092, "The observability HTTP port (0 disables it)")
	basePath    = flag.String("base", "", "Base directory the config path is resolved against (default: working directory)")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logPretty   = flag.Bool("log-pretty", false, "Human-readable console logs")
)

func main() {
	flag.Parse()

	logger.InitGlobalLogger(logger.Config{
		Level:  *logLevel,
		Pretty: *logPretty,
	})
	log := logger.GetGlobalLogger()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	var resolver config.BasePathResolver = config.WorkingDirResolver{}
	if *basePath != "" {
		resolver = config.DirResolver(*basePath)
	}
	provider := config.EnvSettings{}
	path := config.ResolvePath(provider, resolver)

	storeLog := log.StoreLogger(path)
	store := config.New(storeLog, provider, resolver,
		config.WithObserver(m),
		config.WithObserver(logger.NewConfigObserver(storeLog)),
	)
	log.LogServerStart(*port, store.Path())

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Fatal("Failed to listen").Err(err).Send()
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(server.GrpcMetricsInterceptor(m, log)),
	)
	server.RegisterConfigServiceServer(grpcServer, server.NewServer(store))

	done := make(chan struct{})
	go m.RunUptime(10*time.Second, done)

	var obs *server.ObservabilityServer
	if *metricsPort > 0 {
		obs = server.NewObservabilityServer(*metricsPort, reg, store, log)
		go func() {
			if err := obs.Start(); err != nil {
				log.Error(err, "Observability server stopped", nil)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.LogServerShutdown()
		close(done)
		if obs != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := obs.Shutdown(ctx); err != nil {
				log.Error(err, "Observability shutdown failed", nil)
			}
		}
		grpcServer.GracefulStop()
	}()

	log.LogServerReady(*port)
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatal("Failed to serve").Err(err).Send()
	}
}
