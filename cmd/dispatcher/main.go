package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/waterbus-go/sfu/pkg/config"
	"github.com/waterbus-go/sfu/pkg/dispatcher"
	"github.com/waterbus-go/sfu/pkg/profiling"
	"github.com/waterbus-go/sfu/pkg/registry"
	"github.com/waterbus-go/sfu/pkg/rpc/codec"
	"github.com/waterbus-go/sfu/pkg/rpc/dispatcherpb"
	"github.com/waterbus-go/sfu/pkg/sessioncache"
	"github.com/waterbus-go/sfu/pkg/sfuerr"
)

func main() {
	var (
		configFilePath = flag.String("config", "config.yaml", "configuration file path")
		cpuProfile     = flag.String("cpuProfile", "", "write CPU profile to `file`")
		memProfile     = flag.String("memProfile", "", "write memory profile to `file`")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})

	deferredFunctions := []func(){}
	if *cpuProfile != "" {
		deferredFunctions = append(deferredFunctions, profiling.InitCPUProfiling(cpuProfile))
	}
	if *memProfile != "" {
		deferredFunctions = append(deferredFunctions, profiling.InitMemoryProfiling(memProfile))
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		for _, function := range deferredFunctions {
			function()
		}
		os.Exit(0)
	}()

	cfg, err := config.LoadConfig(*configFilePath)
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
		return
	}

	setLogLevel(cfg.LogLevel)

	// Node deletions seen by the registry watch are queued here and fanned out
	// as NodeTerminated once the dispatcher below exists.
	terminated := make(chan string, 16)
	reg, err := registry.New(ctx, []string{cfg.EtcdURI}, logrus.WithField("component", "registry"), func(nodeID string) {
		terminated <- nodeID
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to etcd registry")
		return
	}
	defer reg.Close()

	cache, err := sessioncache.New(cfg.RedisURIs)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to session cache")
		return
	}
	defer cache.Close()

	disp := dispatcher.New(reg, cache, dialNode, logrus.WithField("component", "dispatcher"))
	go func() {
		for nodeID := range terminated {
			_, _ = disp.NodeTerminated(ctx, &dispatcherpb.NodeTerminatedRequest{NodeID: nodeID})
		}
	}()

	server := grpc.NewServer(grpc.UnaryInterceptor(func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, sfuerr.ToGRPCStatus(err)
	}))
	dispatcherpb.RegisterDispatcherServiceServer(server, disp)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.DispatcherGRPCPort))
	if err != nil {
		logrus.WithError(err).Fatal("could not listen for gRPC")
		return
	}

	logrus.WithField("port", cfg.DispatcherGRPCPort).Info("dispatcher listening")
	if err := server.Serve(listener); err != nil {
		logrus.WithError(err).Fatal("gRPC server stopped")
	}
}

// dialNode opens a connection to a node's SfuService, used by the
// Dispatcher's Broadcaster to relay Notify* RPCs (see pkg/dispatcher).
func dialNode(addr string) (grpc.ClientConnInterface, func() error, error) {
	conn, err := grpc.Dial(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codec.Name)),
	)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	case "panic":
		logrus.SetLevel(logrus.PanicLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
