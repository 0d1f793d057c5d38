package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	ClusterMainnetBeta = "mainnet-beta"
	ClusterMainnet     = "mainnet"
	ClusterTestnet     = "testnet"
	ClusterDevnet      = "devnet"
	ClusterLocalnet    = "localnet"
)

// ClusterConfig describes the endpoints of a Solana cluster.
type ClusterConfig struct {
	Moniker string
	RPCURL  string
	WSURL   string
}

// ClusterConfigForMoniker maps a cluster moniker to its endpoints. The RPC URL can be overridden
// with SOLANA_RPC_URL.
func ClusterConfigForMoniker(moniker string) (*ClusterConfig, error) {
	var config *ClusterConfig
	switch strings.ToLower(moniker) {
	case ClusterMainnetBeta, ClusterMainnet:
		config = &ClusterConfig{
			Moniker: ClusterMainnetBeta,
			RPCURL:  MainnetBetaRPCURL,
			WSURL:   MainnetBetaWSURL,
		}
	case ClusterTestnet:
		config = &ClusterConfig{
			Moniker: ClusterTestnet,
			RPCURL:  TestnetRPCURL,
			WSURL:   TestnetWSURL,
		}
	case ClusterDevnet:
		config = &ClusterConfig{
			Moniker: ClusterDevnet,
			RPCURL:  DevnetRPCURL,
			WSURL:   DevnetWSURL,
		}
	case ClusterLocalnet, "localhost":
		config = &ClusterConfig{
			Moniker: ClusterLocalnet,
			RPCURL:  LocalnetRPCURL,
			WSURL:   LocalnetWSURL,
		}
	default:
		return nil, fmt.Errorf("%w %q, must be one of: %s, %s, %s, %s", ErrInvalidCluster, moniker, ClusterMainnetBeta, ClusterTestnet, ClusterDevnet, ClusterLocalnet)
	}

	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL != "" {
		config.RPCURL = rpcURL
	}
	return config, nil
}

// MonikerForRPCURL returns the moniker of a known public endpoint, or localnet for loopback URLs.
// Unknown endpoints return an empty string.
func MonikerForRPCURL(rpcURL string) string {
	switch {
	case rpcURL == MainnetBetaRPCURL:
		return ClusterMainnetBeta
	case rpcURL == TestnetRPCURL:
		return ClusterTestnet
	case rpcURL == DevnetRPCURL:
		return ClusterDevnet
	case strings.Contains(rpcURL, "127.0.0.1"), strings.Contains(rpcURL, "localhost"):
		return ClusterLocalnet
	}
	return ""
}
