package config

const (
	// Public cluster RPC endpoints.
	MainnetBetaRPCURL = "https://api.mainnet-beta.solana.com"
	TestnetRPCURL     = "https://api.testnet.solana.com"
	DevnetRPCURL      = "https://api.devnet.solana.com"
	LocalnetRPCURL    = "http://127.0.0.1:8899"

	// Public cluster websocket endpoints.
	MainnetBetaWSURL = "wss://api.mainnet-beta.solana.com"
	TestnetWSURL     = "wss://api.testnet.solana.com"
	DevnetWSURL      = "wss://api.devnet.solana.com"
	LocalnetWSURL    = "ws://127.0.0.1:8900"

	// Provider defaults.
	DefaultCommitment     = "confirmed"
	DefaultConfirmTimeout = "60s"
	DefaultWorkspaceDir   = "."
)
