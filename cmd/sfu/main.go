package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/waterbus-go/sfu/pkg/config"
	"github.com/waterbus-go/sfu/pkg/profiling"
	"github.com/waterbus-go/sfu/pkg/registry"
	"github.com/waterbus-go/sfu/pkg/rpc/codec"
	"github.com/waterbus-go/sfu/pkg/rpc/sfupb"
	"github.com/waterbus-go/sfu/pkg/sessioncache"
	"github.com/waterbus-go/sfu/pkg/sfuerr"
	"github.com/waterbus-go/sfu/pkg/sfunode"
	"github.com/waterbus-go/sfu/pkg/telemetry"
	"github.com/waterbus-go/sfu/pkg/webrtc_ext"
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

	if cfg.PodID == "" {
		cfg.PodID = uuid.NewString()
	}

	tel := setupTelemetry(cfg, "sfu-node")

	factory, err := webrtc_ext.NewPeerConnectionFactory(webrtc_ext.Config{
		EnableSimulcast: true,
		PublicIP:        cfg.PublicIP,
		PortMinUDP:      cfg.PortMinUDP,
		PortMaxUDP:      cfg.PortMaxUDP,
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not create WebRTC peer connection factory")
		return
	}

	sessions, err := sessioncache.New(cfg.RedisURIs)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to session cache")
		return
	}
	defer sessions.Close()

	addr := fmt.Sprintf("%s:%d", cfg.NodeIP, cfg.SFUGRPCPort)

	node := sfunode.New(cfg.PodID, addr, factory, sessions, dialNode, tel, logrus.WithField("node_id", cfg.PodID))

	lease, err := registry.Register(ctx, []string{cfg.EtcdURI}, cfg.PodID, registry.NodeMetadata{
		Addr: addr,
	}, logrus.WithField("component", "registry"))
	if err != nil {
		logrus.WithError(err).Fatal("could not register node with etcd")
		return
	}
	defer lease.Close(context.Background())

	go refreshLoad(ctx, lease, node, addr)

	server := grpc.NewServer(grpc.UnaryInterceptor(func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, sfuerr.ToGRPCStatus(err)
	}))
	sfupb.RegisterSfuServiceServer(server, node)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.SFUGRPCPort))
	if err != nil {
		logrus.WithError(err).Fatal("could not listen for gRPC")
		return
	}

	logrus.WithFields(logrus.Fields{"addr": addr, "pod_id": cfg.PodID}).Info("sfu node listening")
	if err := server.Serve(listener); err != nil {
		logrus.WithError(err).Fatal("gRPC server stopped")
	}
}

// dialNode opens a connection to another node's SfuService for cross-node
// relay (see pkg/sfunode/relay.go). Plain insecure credentials: this
// cluster is expected to run behind a private network boundary, the same
// trust assumption original_source's node-to-node links make.
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

// refreshLoad periodically republishes this node's metadata so the
// Dispatcher's least-loaded placement sees reasonably current numbers.
func refreshLoad(ctx context.Context, lease *registry.Lease, node *sfunode.Node, addr string) {
	ticker := time.NewTicker(registry.LeaseTTLSeconds / 2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)

			meta := registry.NodeMetadata{
				Addr:       addr,
				CPUPercent: float32(runtime.NumGoroutine()),
				RAMPercent: float32(mem.Alloc) / float32(mem.Sys+1) * 100,
				Rooms:      node.RoomCount(),
			}
			if err := lease.Refresh(ctx, meta); err != nil {
				logrus.WithError(err).Warn("failed to refresh node registration")
			}
		}
	}
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

// setupTelemetry wires a tracer provider when Jaeger/OTLP is configured, and
// otherwise returns a root Telemetry backed by the (noop) default tracer so
// callers never need to nil-check it.
func setupTelemetry(cfg *config.Config, name string) *telemetry.Telemetry {
	if cfg.Telemetry.JaegerURL != "" || cfg.Telemetry.OTLP.Host != "" {
		if cfg.Telemetry.Package == "" {
			cfg.Telemetry.Package = name
		}
		if cfg.Telemetry.ID == "" {
			cfg.Telemetry.ID = cfg.PodID
		}
		if _, err := telemetry.SetupTelemetry(cfg.Telemetry); err != nil {
			logrus.WithError(err).Warn("telemetry disabled: could not set up tracer provider")
		}
	}

	return telemetry.NewTelemetry(context.Background(), name)
}
