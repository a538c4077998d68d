// Package config loads SFU node and Dispatcher configuration, following the
// teacher's dual env-var/YAML loading split (pkg/config/config.go) but
// keyed on the environment variables this cluster's processes expect,
// rather than a Matrix homeserver/call config.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/waterbus-go/sfu/pkg/telemetry"
)

// Config is shared by cmd/sfu and cmd/dispatcher; each binary only reads the
// fields relevant to it.
type Config struct {
	// NodeIP is this node's address as advertised to the registry (host:port
	// reachability may differ behind NAT, see PublicIP).
	NodeIP string `yaml:"node_ip"`
	// PublicIP is advertised to WebRTC peers as the host ICE candidate.
	PublicIP string `yaml:"public_ip"`
	// PodID uniquely identifies this process instance in the registry and
	// session cache (falls back to a random uuid if unset).
	PodID string `yaml:"pod_id"`

	EtcdURI     string   `yaml:"etcd_uri"`
	RedisURIs   []string `yaml:"redis_uris"`

	SFUGRPCPort        int `yaml:"sfu_grpc_port"`
	DispatcherGRPCPort int `yaml:"dispatcher_grpc_port"`

	PortMinUDP uint16 `yaml:"port_min_udp"`
	PortMaxUDP uint16 `yaml:"port_max_udp"`

	Telemetry telemetry.Config `yaml:"telemetry"`

	// Starting from which level to log stuff.
	LogLevel string `yaml:"log"`
}

// ErrNoConfigEnvVar is returned by LoadConfigFromEnv when the NODE_IP
// environment variable is not set.
var ErrNoConfigEnvVar = errors.New("environment variable not set or invalid")

// LoadConfig first tries CONFIG (a YAML document inline in the environment),
// then falls back to the per-variable environment layout of spec §6, then to
// the file at path if neither environment form is present.
func LoadConfig(path string) (*Config, error) {
	if configEnv := os.Getenv("CONFIG"); configEnv != "" {
		return LoadConfigFromString(configEnv)
	}

	if cfg, err := LoadConfigFromEnv(); err == nil {
		return cfg, nil
	} else if !errors.Is(err, ErrNoConfigEnvVar) {
		return nil, err
	}

	return LoadConfigFromPath(path)
}

// LoadConfigFromEnv builds a Config purely from the individual environment
// variables named in spec §6. Returns ErrNoConfigEnvVar if NODE_IP (the one
// variable every deployment must set) is absent.
func LoadConfigFromEnv() (*Config, error) {
	nodeIP := os.Getenv("NODE_IP")
	if nodeIP == "" {
		return nil, ErrNoConfigEnvVar
	}

	cfg := &Config{
		NodeIP:             nodeIP,
		PublicIP:           getEnv("PUBLIC_IP", nodeIP),
		PodID:              getEnv("POD_ID", ""),
		EtcdURI:            getEnv("ETCD_URI", "http://localhost:2379"),
		RedisURIs:          splitTrim(getEnv("REDIS_URIS", "redis://localhost:6379"), ","),
		SFUGRPCPort:        getEnvInt("SFU_GRPC_PORT", 50051),
		DispatcherGRPCPort: getEnvInt("DISPATCHER_GRPC_PORT", 50052),
		PortMinUDP:         uint16(getEnvInt("PORT_MIN_UDP", 0)),
		PortMaxUDP:         uint16(getEnvInt("PORT_MAX_UDP", 0)),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// LoadConfigFromPath reads a YAML config file, for deployments that prefer a
// mounted file over individual environment variables.
func LoadConfigFromPath(path string) (*Config, error) {
	logrus.WithField("path", path).Info("loading config")

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return LoadConfigFromString(string(file))
}

// LoadConfigFromString parses a YAML config document.
func LoadConfigFromString(configString string) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(configString), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML config: %w", err)
	}

	if config.NodeIP == "" {
		return nil, errors.New("invalid config: node_ip is required")
	}

	return &config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
