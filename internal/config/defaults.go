package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/db/insights.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "./data/indices/bleve"
	}
	if cfg.Storage.VectorStorePath == "" {
		cfg.Storage.VectorStorePath = "./data/indices/vectors.bin"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "./data/scraped"
	}
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "./data/out"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = 8
	}
	if cfg.Pipeline.MinTextLength == 0 {
		cfg.Pipeline.MinTextLength = 30
	}
	if cfg.Pipeline.FingerprintLength == 0 {
		cfg.Pipeline.FingerprintLength = 150
	}
	if cfg.Pipeline.MaxTextLength == 0 {
		cfg.Pipeline.MaxTextLength = 2000
	}
	if cfg.Cluster.Eps == 0 {
		cfg.Cluster.Eps = 0.4
	}
	if cfg.Cluster.MinClusterSize == 0 {
		cfg.Cluster.MinClusterSize = 3
	}
	if cfg.Cluster.SimilarTopK == 0 {
		cfg.Cluster.SimilarTopK = 10
	}
	if cfg.Watch.Directory == "" {
		cfg.Watch.Directory = cfg.Storage.DataDir
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".json"}
	}
}
