package common

// Settings is the CLI configuration unmarshalled from viper.
type Settings struct {
	Rpc struct {
		Endpoint       string
		Commitment     string
		TimeoutSeconds int
	}
	Program struct {
		Schema  string
		Address string
	}
	Wallet struct {
		Path string
	}
	Storage struct {
		Dir string
	}
}
