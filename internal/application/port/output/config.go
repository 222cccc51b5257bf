package output

// ConfigPort reads settings that stay outside config.Config, such as API keys.
type ConfigPort interface {
	Get(key string) string
	Require(key string) (string, error)
	GetWithDefault(key string, defaultValue string) string
}
