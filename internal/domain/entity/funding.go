package entity

// FundingRateSample holds the one-hour funding factor of a market for both sides,
// as formatted percentages and as raw integer factors.
type FundingRateSample struct {
	Market   string `json:"market"`
	Long     string `json:"long"`
	Short    string `json:"short"`
	LongRaw  string `json:"longRaw"`
	ShortRaw string `json:"shortRaw"`
}
