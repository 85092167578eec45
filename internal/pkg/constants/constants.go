package constants

// Canonical column names of the two input sources. The geometry key
// field is configurable, the results columns are part of the loader
// contract.
const (
	DefaultRegionKeyField = "ADM2_EN"

	FieldYear       = "year"
	FieldRegionName = "moughataa"
	FieldCandidate  = "candidate"
	FieldVoteCount  = "nb_votes"
)

// Viper configuration keys, overridable through the ELECTOMAP_ env
// prefix (e.g. ELECTOMAP_DEFAULT_YEAR).
const (
	ViperKeyDefaultYear  = "default_year"
	ViperKeyFetchTimeout = "fetch_timeout"
	ViperKeyFetchRetries = "fetch_retries"
	ViperKeyTitlePrefix  = "title_prefix"
	ViperKeyWidth        = "width"
	ViperKeyHeight       = "height"
	ViperKeyOutputPath   = "output_path"
)
