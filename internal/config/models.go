package config

// DatasetConfig describes where and how the corpus is read
type DatasetConfig struct {
	Path          string
	Encoding      string
	LabelColumn   string
	TextColumn    string
	UnknownLabels string
}

// TextConfig configures normalization
type TextConfig struct {
	StopwordsFile string
}

// ModelConfig configures vocabulary, split and optimizer
type ModelConfig struct {
	MaxFeatures  int
	TestFraction float64
	Seed         int64
	Solver       string
	MaxIter      int
	LearningRate float64
	C            float64
	Tolerance    float64
	BatchSize    int
}

// ArtifactsConfig selects and configures the artifact store
type ArtifactsConfig struct {
	Store          string
	Name           string
	ModelPath      string
	VectorizerPath string
	SQLitePath     string
	MySQLDSN       string
}

// SpamConfig configures the detector
type SpamConfig struct {
	Threshold          float64
	WhitelistedDomains []string
	TopTokens          int
}

// GetDataset returns the dataset configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		Path:          c.GetString("dataset.path"),
		Encoding:      c.GetString("dataset.encoding"),
		LabelColumn:   c.GetString("dataset.label_column"),
		TextColumn:    c.GetString("dataset.text_column"),
		UnknownLabels: c.GetString("dataset.unknown_labels"),
	}
}

// GetText returns the normalization configuration
func (c *Config) GetText() TextConfig {
	return TextConfig{
		StopwordsFile: c.GetString("text.stopwords_file"),
	}
}

// GetModel returns the training configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		MaxFeatures:  c.GetInt("features.max_features"),
		TestFraction: c.GetFloat64("split.test_fraction"),
		Seed:         c.GetInt64("split.seed"),
		Solver:       c.GetString("model.solver"),
		MaxIter:      c.GetInt("model.max_iter"),
		LearningRate: c.GetFloat64("model.learning_rate"),
		C:            c.GetFloat64("model.c"),
		Tolerance:    c.GetFloat64("model.tolerance"),
		BatchSize:    c.GetInt("model.batch_size"),
	}
}

// GetArtifacts returns the artifact store configuration
func (c *Config) GetArtifacts() ArtifactsConfig {
	return ArtifactsConfig{
		Store:          c.GetString("artifacts.store"),
		Name:           c.GetString("artifacts.name"),
		ModelPath:      c.GetString("artifacts.model_path"),
		VectorizerPath: c.GetString("artifacts.vectorizer_path"),
		SQLitePath:     c.GetString("artifacts.sqlite_path"),
		MySQLDSN:       c.GetString("artifacts.mysql_dsn"),
	}
}

// GetSpam returns the detector configuration
func (c *Config) GetSpam() SpamConfig {
	return SpamConfig{
		Threshold:          c.GetFloat64("spam.threshold"),
		WhitelistedDomains: c.GetStringSlice("spam.whitelisted_domains"),
		TopTokens:          c.GetInt("spam.top_tokens"),
	}
}
