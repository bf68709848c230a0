package entity

// NetworkProfile holds the endpoints and contract addresses for one GMX deployment.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkProfile struct {
	ChainID                   uint64   `json:"chainId" yaml:"chainId"`
	Name                      string   `json:"name" yaml:"name"`
	Identifier                string   `json:"identifier" yaml:"identifier"` // e.g. "arbitrum", "avalanche"
	NativeSymbol              string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	WrappedNativeTokenAddress string   `json:"wrappedNativeTokenAddress" yaml:"wrappedNativeTokenAddress"`
	PrimaryRPCURL             string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs           []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	OracleURL                 string   `json:"oracleUrl" yaml:"oracleUrl"`
	SubsquidURL               string   `json:"subsquidUrl" yaml:"subsquidUrl"`
	BlockExplorerURL          string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`

	DataStoreAddress       string `json:"dataStoreAddress" yaml:"dataStoreAddress"`
	ReaderAddress          string `json:"readerAddress" yaml:"readerAddress"`
	ReferralStorageAddress string `json:"referralStorageAddress" yaml:"referralStorageAddress"`
}
